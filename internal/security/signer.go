// Package security signs analysis reports so downstream consumers can
// verify a result was produced by this service and has not been altered.
package security

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

const signatureAlgorithm = "ECDSA-secp256k1-Keccak256"

// Options configures report signing behavior
type Options struct {
	// Enabled turns signing on; when false SignReport passes payloads
	// through untouched
	Enabled bool `json:"enabled"`

	// SignatureValidity bounds how long a signature stays acceptable
	SignatureValidity time.Duration `json:"signature_validity"`

	// StrictMode makes verification fail hard on a missing signature
	// block instead of reporting unverified
	StrictMode bool `json:"strict_mode"`
}

// ReportSigner attaches and verifies secp256k1 signatures on report
// payloads. The payload hash is Keccak-256 over the canonical JSON of the
// payload without its signature block.
type ReportSigner struct {
	privateKey *ecdsa.PrivateKey
	publicKey  string
	opts       Options
}

// NewReportSigner creates a signer with a freshly generated key pair
func NewReportSigner(opts Options) (*ReportSigner, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	if opts.SignatureValidity <= 0 {
		opts.SignatureValidity = time.Hour
	}

	publicKey := hex.EncodeToString(crypto.FromECDSAPub(&privateKey.PublicKey))
	s := &ReportSigner{
		privateKey: privateKey,
		publicKey:  publicKey,
		opts:       opts,
	}
	logrus.Infof("Report signer initialized with public key: %s...", publicKey[:16])
	return s, nil
}

// PublicKey returns the hex-encoded uncompressed public key
func (s *ReportSigner) PublicKey() string {
	return s.publicKey
}

// SignReport returns the payload as a map with a _signature block attached.
// When signing is disabled the payload is converted and returned unsigned.
func (s *ReportSigner) SignReport(payload interface{}) (map[string]interface{}, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if !s.opts.Enabled {
		return result, nil
	}

	// Hash the canonical map form so verification, which rebuilds the map
	// from the signed payload, reproduces the same bytes
	canonical, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}
	hash := crypto.Keccak256Hash(canonical)
	signature, err := crypto.Sign(hash.Bytes(), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	now := time.Now()
	result["_signature"] = map[string]interface{}{
		"signature":  hex.EncodeToString(signature),
		"publicKey":  s.publicKey,
		"algorithm":  signatureAlgorithm,
		"hash":       hash.Hex(),
		"timestamp":  now.Unix(),
		"validUntil": now.Add(s.opts.SignatureValidity).Unix(),
	}
	return result, nil
}

// VerifyReport checks the _signature block on a signed payload. It returns
// false with a nil error for an unsigned payload outside strict mode.
func (s *ReportSigner) VerifyReport(signed map[string]interface{}) (bool, error) {
	sigMetadata, ok := signed["_signature"].(map[string]interface{})
	if !ok {
		if s.opts.StrictMode {
			return false, fmt.Errorf("signature metadata missing")
		}
		logrus.Warn("Signature metadata missing from payload")
		return false, nil
	}

	signatureStr, ok := sigMetadata["signature"].(string)
	if !ok {
		return false, fmt.Errorf("invalid signature format")
	}
	publicKeyStr, ok := sigMetadata["publicKey"].(string)
	if !ok {
		return false, fmt.Errorf("invalid public key format")
	}

	validUntil, ok := toInt64(sigMetadata["validUntil"])
	if !ok {
		return false, fmt.Errorf("invalid validUntil format")
	}
	now := time.Now().Unix()
	if now > validUntil {
		return false, fmt.Errorf("signature expired at %v (current time: %v)",
			time.Unix(validUntil, 0), time.Unix(now, 0))
	}

	signatureBytes, err := hex.DecodeString(strings.TrimPrefix(signatureStr, "0x"))
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(signatureBytes) != crypto.SignatureLength {
		return false, fmt.Errorf("invalid signature length: %d", len(signatureBytes))
	}
	publicKeyBytes, err := hex.DecodeString(strings.TrimPrefix(publicKeyStr, "0x"))
	if err != nil {
		return false, fmt.Errorf("failed to decode public key: %w", err)
	}

	// Hash the payload without its signature block
	payloadCopy := make(map[string]interface{}, len(signed))
	for k, v := range signed {
		if k != "_signature" {
			payloadCopy[k] = v
		}
	}
	payloadBytes, err := json.Marshal(payloadCopy)
	if err != nil {
		return false, fmt.Errorf("failed to marshal payload: %w", err)
	}
	hash := crypto.Keccak256Hash(payloadBytes)

	// VerifySignature takes the 64-byte R||S form without the recovery id
	if !crypto.VerifySignature(publicKeyBytes, hash.Bytes(), signatureBytes[:64]) {
		return false, fmt.Errorf("signature verification failed")
	}
	return true, nil
}

// toInt64 accepts the integer encodings that survive a JSON round trip
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
