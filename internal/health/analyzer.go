// Package health computes per-chain health summaries from the upstream
// TVL universe: current TVL, protocol presence and a 30-day trend band.
package health

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
	"github.com/yourorg/chain-migration-analyzer/internal/validation"
)

// Trend banding thresholds, in percent over 30 days
const (
	trendWindowDays  = 30
	growingThreshold = 5.0
	decliningCutoff  = -5.0
)

// ChainDataProvider supplies the upstream universes the analyzer reads.
// Implemented by fetch.DefiLlamaClient; tests supply fakes.
type ChainDataProvider interface {
	AllChains(ctx context.Context) ([]model.ChainSnapshot, error)
	HistoricalTVL(ctx context.Context, chain string) ([]model.TvlHistoryPoint, error)
	AllProtocols(ctx context.Context) ([]model.Protocol, error)
}

// Analyzer computes chain health summaries. It holds no mutable state and
// is safe for concurrent use.
type Analyzer struct {
	provider ChainDataProvider
}

// NewAnalyzer creates an Analyzer backed by the given provider
func NewAnalyzer(provider ChainDataProvider) *Analyzer {
	return &Analyzer{provider: provider}
}

// ChainHealth builds the health summary for one chain. Chain matching is
// case-insensitive against provider display names. An unknown chain returns
// a not-found error carrying a hint of available names.
func (a *Analyzer) ChainHealth(ctx context.Context, chain string) (*model.ChainHealth, error) {
	chains, err := a.provider.AllChains(ctx)
	if err != nil {
		return nil, err
	}
	chains = validation.FilterSnapshots(chains)

	snapshot, ok := findChain(chains, chain)
	if !ok {
		return nil, apierror.NotFound("chain '%s' not found", chain).
			With("available", chainNames(chains, 20))
	}

	protocols, err := a.provider.AllProtocols(ctx)
	if err != nil {
		return nil, err
	}
	count := protocolCount(protocols, snapshot.Name)

	pct, trend := a.trendFor(ctx, snapshot.Name)
	pct = math.Round(pct*100) / 100

	return &model.ChainHealth{
		Chain:           snapshot.Name,
		TVL:             snapshot.TVL,
		TVLFormatted:    FormatTVL(snapshot.TVL),
		TokenSymbol:     snapshot.TokenSymbol,
		ChainID:         snapshot.ChainID,
		ProtocolCount:   count,
		TVLChange30dPct: pct,
		Trend:           trend,
	}, nil
}

// Universe returns the validated chain universe sorted as the provider
// reports it.
func (a *Analyzer) Universe(ctx context.Context) ([]model.ChainSnapshot, error) {
	chains, err := a.provider.AllChains(ctx)
	if err != nil {
		return nil, err
	}
	return validation.FilterSnapshots(chains), nil
}

// trendFor classifies a chain's 30-day TVL movement. A series too short for
// the window, or a fetch failure, degrades to the unknown trend rather than
// failing the whole summary.
func (a *Analyzer) trendFor(ctx context.Context, chain string) (float64, string) {
	history, err := a.provider.HistoricalTVL(ctx, chain)
	if err != nil {
		logrus.Warnf("Historical TVL unavailable for %s: %v", chain, err)
		return 0, model.TrendUnknown
	}
	history = validation.SanitizeHistory(history)
	return TrendFromHistory(history)
}

// TrendFromHistory computes the 30-day percentage change and trend band
// from a chronological TVL series. The window compares the latest sample
// against the one 30 samples earlier; fewer samples than that yields the
// unknown trend.
func TrendFromHistory(history []model.TvlHistoryPoint) (float64, string) {
	if len(history) <= trendWindowDays {
		return 0, model.TrendUnknown
	}
	current := history[len(history)-1].TVL
	past := history[len(history)-1-trendWindowDays].TVL
	if past <= 0 {
		return 0, model.TrendUnknown
	}

	pct := (current - past) / past * 100
	switch {
	case pct > growingThreshold:
		return pct, model.TrendGrowing
	case pct < decliningCutoff:
		return pct, model.TrendDeclining
	default:
		return pct, model.TrendStable
	}
}

// FormatTVL renders a USD amount in the compact display form used across
// all results: $1.23B, $456.7M, $89K or $12.
func FormatTVL(tvl float64) string {
	switch {
	case tvl >= 1e9:
		return fmt.Sprintf("$%.2fB", tvl/1e9)
	case tvl >= 1e6:
		return fmt.Sprintf("$%.1fM", tvl/1e6)
	case tvl >= 1e3:
		return fmt.Sprintf("$%.0fK", tvl/1e3)
	default:
		return fmt.Sprintf("$%.0f", tvl)
	}
}

// findChain locates a snapshot by case-insensitive display name
func findChain(chains []model.ChainSnapshot, name string) (model.ChainSnapshot, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range chains {
		if strings.ToLower(c.Name) == want {
			return c, true
		}
	}
	return model.ChainSnapshot{}, false
}

// protocolCount counts protocols deployed on the named chain
func protocolCount(protocols []model.Protocol, chain string) int {
	want := strings.ToLower(chain)
	count := 0
	for _, p := range protocols {
		for _, c := range p.Chains {
			if strings.ToLower(c) == want {
				count++
				break
			}
		}
	}
	return count
}

// chainNames returns up to limit display names for not-found hints
func chainNames(chains []model.ChainSnapshot, limit int) []string {
	if limit > len(chains) {
		limit = len(chains)
	}
	names := make([]string, 0, limit)
	for _, c := range chains[:limit] {
		names = append(names, c.Name)
	}
	return names
}
