package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	signer, err := NewReportSigner(Options{Enabled: true})
	require.NoError(t, err)

	payload := map[string]interface{}{
		"overall_risk_score": 42,
		"risk_level":         "MEDIUM",
	}
	signed, err := signer.SignReport(payload)
	require.NoError(t, err)

	sig, ok := signed["_signature"].(map[string]interface{})
	require.True(t, ok, "signed payload must carry a _signature block")
	assert.Equal(t, signatureAlgorithm, sig["algorithm"])
	assert.Equal(t, signer.PublicKey(), sig["publicKey"])

	valid, err := signer.VerifyReport(signed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyStructPayload(t *testing.T) {
	signer, err := NewReportSigner(Options{Enabled: true})
	require.NoError(t, err)

	type report struct {
		Score int    `json:"score"`
		Level string `json:"level"`
		Chain string `json:"chain"`
	}
	signed, err := signer.SignReport(report{Score: 80, Level: "HIGH", Chain: "Fantom"})
	require.NoError(t, err)

	valid, err := signer.VerifyReport(signed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyDetectsTampering(t *testing.T) {
	signer, err := NewReportSigner(Options{Enabled: true})
	require.NoError(t, err)

	signed, err := signer.SignReport(map[string]interface{}{"risk_level": "LOW"})
	require.NoError(t, err)

	signed["risk_level"] = "CRITICAL"
	valid, err := signer.VerifyReport(signed)
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestSignDisabledPassesThrough(t *testing.T) {
	signer, err := NewReportSigner(Options{Enabled: false})
	require.NoError(t, err)

	signed, err := signer.SignReport(map[string]interface{}{"score": 10})
	require.NoError(t, err)
	_, hasSig := signed["_signature"]
	assert.False(t, hasSig)
}

func TestVerifyMissingSignature(t *testing.T) {
	relaxed, err := NewReportSigner(Options{Enabled: true})
	require.NoError(t, err)
	valid, err := relaxed.VerifyReport(map[string]interface{}{"score": 10})
	assert.False(t, valid)
	assert.NoError(t, err, "missing block reports unverified outside strict mode")

	strict, err := NewReportSigner(Options{Enabled: true, StrictMode: true})
	require.NoError(t, err)
	valid, err = strict.VerifyReport(map[string]interface{}{"score": 10})
	assert.False(t, valid)
	assert.Error(t, err)
}

func TestVerifyExpiredSignature(t *testing.T) {
	signer, err := NewReportSigner(Options{Enabled: true})
	require.NoError(t, err)

	signed, err := signer.SignReport(map[string]interface{}{"score": 10})
	require.NoError(t, err)

	sig := signed["_signature"].(map[string]interface{})
	sig["validUntil"] = time.Now().Add(-time.Minute).Unix()

	valid, err := signer.VerifyReport(signed)
	assert.False(t, valid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	signer, err := NewReportSigner(Options{Enabled: true})
	require.NoError(t, err)

	signed, err := signer.SignReport(map[string]interface{}{"score": 10})
	require.NoError(t, err)

	sig := signed["_signature"].(map[string]interface{})
	sig["signature"] = "not-hex"
	valid, err := signer.VerifyReport(signed)
	assert.False(t, valid)
	assert.Error(t, err)
}
