package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yourorg/chain-migration-analyzer/internal/config"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// WormholeClient fetches bridge network telemetry from WormholeScan
type WormholeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewWormholeClient creates a new WormholeScan API client
func NewWormholeClient(cfg config.Config) *WormholeClient {
	return &WormholeClient{
		baseURL:    cfg.WormholeURL,
		httpClient: newRetryClient(cfg.RequestTimeout),
	}
}

// Scorecards retrieves the Wormhole network overview: total messages,
// volume and TVL. Numeric fields arrive as strings on the wire.
func (c *WormholeClient) Scorecards(ctx context.Context) (*model.WormholeScorecards, error) {
	var sc model.WormholeScorecards
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/scorecards", &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// BridgeRisk assesses overall Wormhole bridge health from the scorecards.
// Risk runs 0 (safe) to 100 (risky); thin TVL and low message activity each
// add to the score.
func (c *WormholeClient) BridgeRisk(ctx context.Context) (*model.BridgeRiskSnapshot, error) {
	sc, err := c.Scorecards(ctx)
	if err != nil {
		return nil, err
	}

	tvl := parseAmount(sc.TVL)
	dailyVol := parseAmount(sc.Volume24h)
	totalVol := parseAmount(sc.TotalVolume)
	msgs24h := int(parseAmount(sc.Messages24h))

	riskScore := 0
	var factors []string

	switch {
	case tvl > 1e9:
		factors = append(factors, fmt.Sprintf("Strong TVL: $%.1fB locked", tvl/1e9))
	case tvl > 100e6:
		riskScore += 10
		factors = append(factors, fmt.Sprintf("Moderate TVL: $%.0fM", tvl/1e6))
	default:
		riskScore += 30
		factors = append(factors, fmt.Sprintf("Low TVL: $%.0fM - liquidity risk", tvl/1e6))
	}

	switch {
	case msgs24h > 100000:
		factors = append(factors, fmt.Sprintf("High activity: %s messages/24h", groupDigits(msgs24h)))
	case msgs24h > 10000:
		factors = append(factors, fmt.Sprintf("Moderate activity: %s messages/24h", groupDigits(msgs24h)))
	default:
		riskScore += 20
		factors = append(factors, fmt.Sprintf("Low activity: %s messages/24h", groupDigits(msgs24h)))
	}

	level := model.RiskHigh
	if riskScore < 20 {
		level = model.RiskLow
	} else if riskScore < 50 {
		level = model.RiskMedium
	}

	return &model.BridgeRiskSnapshot{
		Bridge:      "Wormhole",
		TVL:         tvl,
		DailyVolume: dailyVol,
		TotalVolume: totalVol,
		RiskScore:   riskScore,
		RiskLevel:   level,
		Factors:     factors,
	}, nil
}

// ChainPairActivity is one source-to-destination transfer corridor as
// reported by WormholeScan. Chains are identified by Wormhole numeric IDs.
type ChainPairActivity struct {
	EmitterChain     int   `json:"emitterChain"`
	DestinationChain int   `json:"destinationChain"`
	Transfers        int64 `json:"numberOfTransfers"`
}

// AssetActivity is one bridged asset's recent volume as reported by
// WormholeScan. Volume arrives as a string on the wire.
type AssetActivity struct {
	EmitterChain int    `json:"emitterChain"`
	TokenChain   int    `json:"tokenChain"`
	TokenAddress string `json:"tokenAddress"`
	Symbol       string `json:"symbol"`
	Volume       string `json:"volume"`
}

// TopChainPairs retrieves the most active transfer corridors over the given
// span (7d, 15d or 30d; anything else falls back to 7d).
func (c *WormholeClient) TopChainPairs(ctx context.Context, span string) ([]ChainPairActivity, error) {
	endpoint := fmt.Sprintf("%s/top-chain-pairs-by-num-transfers?timeSpan=%s", c.baseURL, normalizeSpan(span))
	var pairs []ChainPairActivity
	if err := getJSON(ctx, c.httpClient, endpoint, &pairs); err != nil {
		return nil, err
	}
	return pairs, nil
}

// TopAssets retrieves the highest-volume bridged assets over the given span
func (c *WormholeClient) TopAssets(ctx context.Context, span string) ([]AssetActivity, error) {
	endpoint := fmt.Sprintf("%s/top-assets-by-volume?timeSpan=%s", c.baseURL, normalizeSpan(span))
	var assets []AssetActivity
	if err := getJSON(ctx, c.httpClient, endpoint, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// normalizeSpan clamps the activity window to the values WormholeScan accepts
func normalizeSpan(span string) string {
	switch span {
	case "7d", "15d", "30d":
		return span
	default:
		return "7d"
	}
}

// parseAmount converts a stringly-typed wire number; malformed or missing
// values count as zero
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// groupDigits renders n with thousands separators, e.g. 1234567 -> 1,234,567
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
