// Package compare scores how strongly the evidence favors migrating from a
// source chain to a target chain. The signal is additive and bounded: each
// satisfied criterion contributes a fixed number of points and the total is
// clamped to 100.
package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// Signal point values and trigger thresholds
const (
	sourceDecliningPoints = 25
	targetGrowingPoints   = 25
	tvlRatioPoints        = 15
	protocolRatioPoints   = 15

	tvlRatioTrigger      = 2.0
	protocolRatioTrigger = 1.5

	strongThreshold   = 50
	moderateThreshold = 25
)

// Recommendation tiers
const (
	RecommendStrong   = "STRONG migration case"
	RecommendModerate = "MODERATE migration case"
	RecommendWeak     = "WEAK migration case — consider staying"
)

// HealthProvider supplies per-chain health summaries
type HealthProvider interface {
	ChainHealth(ctx context.Context, chain string) (*model.ChainHealth, error)
}

// Comparator builds migration-signal comparisons from chain health data
type Comparator struct {
	provider HealthProvider
}

// NewComparator creates a Comparator backed by the given health provider
func NewComparator(provider HealthProvider) *Comparator {
	return &Comparator{provider: provider}
}

// Compare fetches health for both chains and scores the migration signal.
// A failure on either side fails the comparison and no partial score is
// produced, but the error carries the surviving side's health so callers
// can still present it. Both sides are always fetched for that reason.
func (c *Comparator) Compare(ctx context.Context, source, target string) (*model.ChainComparison, error) {
	sourceHealth, sourceErr := c.provider.ChainHealth(ctx, source)
	targetHealth, targetErr := c.provider.ChainHealth(ctx, target)

	if sourceErr != nil {
		err := wrapSide(sourceErr, "source", source)
		var e *apierror.Error
		if errors.As(err, &e) {
			if targetErr != nil {
				e.With("target_error", targetErr.Error())
			} else {
				e.With("target_health", targetHealth)
			}
		}
		return nil, err
	}
	if targetErr != nil {
		err := wrapSide(targetErr, "target", target)
		var e *apierror.Error
		if errors.As(err, &e) {
			e.With("source_health", sourceHealth)
		}
		return nil, err
	}

	score, reasons, recommendation := Signal(*sourceHealth, *targetHealth)
	return &model.ChainComparison{
		Source:               *sourceHealth,
		Target:               *targetHealth,
		MigrationSignalScore: score,
		MigrationReasons:     reasons,
		Recommendation:       recommendation,
	}, nil
}

// Signal scores a source/target health pair. Pure and deterministic:
// identical inputs always yield identical score, reasons and ordering.
func Signal(source, target model.ChainHealth) (int, []string, string) {
	// A zero denominator floors to 1 so the ratio stays finite. Dividing
	// by a dollar (or a single protocol) inflates the ratio; the extra
	// reason makes the distortion visible.
	tvlRatio := target.TVL / maxFloat(source.TVL, 1)
	protocolRatio := float64(target.ProtocolCount) / maxFloat(float64(source.ProtocolCount), 1)

	sourceDeclining := source.TVLChange30dPct < -5
	targetGrowing := target.TVLChange30dPct > 5

	score := 0
	reasons := []string{}

	if sourceDeclining {
		score += sourceDecliningPoints
		reasons = append(reasons, fmt.Sprintf("Source chain declining (%.1f%% 30d)", source.TVLChange30dPct))
	}
	if targetGrowing {
		score += targetGrowingPoints
		reasons = append(reasons, fmt.Sprintf("Target chain growing (%.1f%% 30d)", target.TVLChange30dPct))
	}
	if tvlRatio > tvlRatioTrigger {
		score += tvlRatioPoints
		reasons = append(reasons, fmt.Sprintf("Target has %.1fx more TVL", tvlRatio))
	}
	if protocolRatio > protocolRatioTrigger {
		score += protocolRatioPoints
		reasons = append(reasons, fmt.Sprintf("Target has %.1fx more protocols", protocolRatio))
	}
	if !sourceDeclining && !targetGrowing {
		reasons = append(reasons, "Both chains appear stable — migration may not be urgent")
	}
	if source.TVL < 1 {
		reasons = append(reasons, "Source chain TVL is effectively zero; TVL ratio uses a $1 floor")
	}
	if source.ProtocolCount == 0 {
		reasons = append(reasons, "Source chain has no tracked protocols; protocol ratio uses a floor of 1")
	}

	if score > 100 {
		score = 100
	}

	recommendation := RecommendWeak
	if score >= strongThreshold {
		recommendation = RecommendStrong
	} else if score >= moderateThreshold {
		recommendation = RecommendModerate
	}
	return score, reasons, recommendation
}

// wrapSide tags a health failure with which side of the comparison it hit
func wrapSide(err error, side, chain string) error {
	var e *apierror.Error
	if errors.As(err, &e) {
		return e.With("side", side).With("chain", chain)
	}
	return err
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
