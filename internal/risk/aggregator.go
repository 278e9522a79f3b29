package risk

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/model"
	"github.com/yourorg/chain-migration-analyzer/internal/types"
)

// Neutral fallback scores substituted when an input is unavailable
const (
	fallbackChainScore  = 50.0
	fallbackBridgeScore = 30.0
	fallbackCodeScore   = 50
)

const incidentPoints = 5

// Weights distributes the composite score across the four factors. The
// weights must sum to 1 so the composite stays within [0, 100].
type Weights struct {
	Chain    float64
	Bridge   float64
	Code     float64
	Incident float64
}

// DefaultWeights returns the standard factor weighting
func DefaultWeights() Weights {
	return Weights{Chain: 0.25, Bridge: 0.25, Code: 0.35, Incident: 0.15}
}

// Validate checks that the weights sum to 1 within floating point tolerance
func (w Weights) Validate() error {
	sum := w.Chain + w.Bridge + w.Code + w.Incident
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("risk weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}

// ComparisonProvider supplies the migration-signal comparison
type ComparisonProvider interface {
	Compare(ctx context.Context, source, target string) (*model.ChainComparison, error)
}

// BridgeRiskProvider supplies the current bridge health assessment
type BridgeRiskProvider interface {
	BridgeRisk(ctx context.Context) (*model.BridgeRiskSnapshot, error)
}

// Aggregator combines the four risk factors into a composite score
type Aggregator struct {
	comparisons ComparisonProvider
	bridges     BridgeRiskProvider
	weights     Weights
	incidents   []incidentRecord
}

// NewAggregator creates an Aggregator. It fails when the weights do not
// sum to 1.
func NewAggregator(comparisons ComparisonProvider, bridges BridgeRiskProvider, weights Weights) (*Aggregator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{
		comparisons: comparisons,
		bridges:     bridges,
		weights:     weights,
		incidents:   bridgeIncidents,
	}, nil
}

// WithIncidents replaces the default exploit ledger and returns the
// aggregator. Entries are ordered by bridge name for determinism.
func (a *Aggregator) WithIncidents(ledger map[string]model.BridgeIncident) *Aggregator {
	names := make([]string, 0, len(ledger))
	for name := range ledger {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]incidentRecord, 0, len(ledger))
	for _, name := range names {
		records = append(records, incidentRecord{Bridge: name, Incident: ledger[name]})
	}
	a.incidents = records
	return a
}

// MigrationRisk computes the composite migration risk for a chain pair.
// Unavailable inputs degrade to documented neutral defaults rather than
// failing the whole assessment; the result names every degraded factor.
func (a *Aggregator) MigrationRisk(ctx context.Context, source, target string) (*model.CompositeRiskResult, error) {
	degraded := []string{}

	// Chain factor: a strong migration signal means low migration risk
	chainScore := fallbackChainScore
	recommendation := "Unable to assess"
	comparison, err := a.comparisons.Compare(ctx, source, target)
	if err != nil {
		logrus.Warnf("Chain comparison unavailable for %s->%s: %v", source, target, err)
		degraded = append(degraded, "chain")
	} else {
		chainScore = math.Max(0, float64(100-comparison.MigrationSignalScore))
		recommendation = comparison.Recommendation
	}

	// Bridge factor from live bridge telemetry
	bridgeScore := fallbackBridgeScore
	snapshot, err := a.bridges.BridgeRisk(ctx)
	if err != nil {
		logrus.Warnf("Bridge risk unavailable: %v", err)
		degraded = append(degraded, "bridge")
	} else {
		bridgeScore = float64(snapshot.RiskScore)
	}

	// Code factor from the static pair table
	pair := PairComplexity(source, target)
	if !pairKnown(source, target) {
		degraded = append(degraded, "code")
	}
	codeScore := float64(pair.DifficultyScore)

	// Historical factor: each unrecovered major exploit adds fixed risk
	incidentScore := 0
	for _, r := range a.incidents {
		if !r.Incident.Recovered {
			incidentScore += incidentPoints
		}
	}
	if incidentScore > 100 {
		incidentScore = 100
	}

	composite := chainScore*a.weights.Chain +
		bridgeScore*a.weights.Bridge +
		codeScore*a.weights.Code +
		float64(incidentScore)*a.weights.Incident

	requiresRewrite := pair.RequiresRewrite
	return &model.CompositeRiskResult{
		OverallRiskScore: int(math.Round(composite)),
		RiskLevel:        riskLevel(composite),
		Breakdown: map[string]model.FactorScore{
			"chain_risk": {Score: chainScore, Weight: a.weights.Chain,
				Note: "Based on TVL trends and ecosystem health"},
			"bridge_risk": {Score: bridgeScore, Weight: a.weights.Bridge,
				Note: "Based on Wormhole TVL and activity"},
			"code_complexity": {Score: codeScore, Weight: a.weights.Code,
				Level:           pair.DifficultyLevel,
				EstimatedWeeks:  pair.EstimatedWeeks,
				RequiresRewrite: &requiresRewrite},
			"historical_risk": {Score: float64(incidentScore), Weight: a.weights.Incident,
				Note: fmt.Sprintf("%d major bridge incidents tracked", len(a.incidents))},
		},
		Challenges:     pair.Challenges,
		Recommendation: recommendation,
		DegradedInputs: degraded,
	}, nil
}

// riskLevel bands a composite score into its display tier
func riskLevel(composite float64) string {
	switch {
	case composite < 25:
		return model.RiskLow
	case composite < 50:
		return model.RiskMedium
	case composite < 75:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

// PairComplexity looks up the static difficulty for a chain pair. Unknown
// pairs get the neutral score. Challenges depend on the chain families:
// the full EVM-to-Solana list, a single minimal-changes entry for
// EVM-to-EVM, and none otherwise.
func PairComplexity(source, target string) *model.PairComplexity {
	src := string(types.Normalize(source))
	tgt := string(types.Normalize(target))

	difficulty, ok := chainCompatibility[chainPair{src, tgt}]
	if !ok {
		difficulty, ok = chainCompatibility[chainPair{tgt, src}]
	}
	if !ok {
		difficulty = fallbackCodeScore
	}

	var challenges []model.MigrationChallenge
	switch {
	case types.IsEVM(source) && types.IsSolana(target):
		challenges = append(challenges, evmToSolanaChallenges...)
	case types.IsEVM(source) && types.IsEVM(target):
		challenges = append(challenges, evmToEVMChallenges...)
	}

	return &model.PairComplexity{
		Source:          source,
		Target:          target,
		DifficultyScore: difficulty,
		DifficultyLevel: difficultyLevel(difficulty),
		RequiresRewrite: difficulty >= 60,
		EstimatedWeeks:  estimatedWeeks(difficulty),
		Challenges:      challenges,
	}
}

// pairKnown reports whether either direction of the pair is in the table
func pairKnown(source, target string) bool {
	src := string(types.Normalize(source))
	tgt := string(types.Normalize(target))
	if _, ok := chainCompatibility[chainPair{src, tgt}]; ok {
		return true
	}
	_, ok := chainCompatibility[chainPair{tgt, src}]
	return ok
}

func difficultyLevel(difficulty int) string {
	switch {
	case difficulty < 20:
		return "TRIVIAL"
	case difficulty < 40:
		return "EASY"
	case difficulty < 60:
		return "MODERATE"
	case difficulty < 80:
		return "HARD"
	default:
		return "VERY HARD"
	}
}

func estimatedWeeks(difficulty int) string {
	switch {
	case difficulty < 20:
		return "1-2"
	case difficulty < 40:
		return "2-4"
	case difficulty < 60:
		return "4-8"
	case difficulty < 80:
		return "8-16"
	default:
		return "16-32"
	}
}
