package compare

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

func TestSignalScoring(t *testing.T) {
	tests := []struct {
		name           string
		source, target model.ChainHealth
		wantScore      int
		wantRec        string
	}{
		{
			name:      "all four criteria met",
			source:    model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: -10},
			target:    model.ChainHealth{TVL: 300e6, ProtocolCount: 20, TVLChange30dPct: 8},
			wantScore: 80,
			wantRec:   RecommendStrong,
		},
		{
			name:      "only source declining",
			source:    model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: -10},
			target:    model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: 0},
			wantScore: 25,
			wantRec:   RecommendModerate,
		},
		{
			name:      "both stable and balanced",
			source:    model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: 0},
			target:    model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: 0},
			wantScore: 0,
			wantRec:   RecommendWeak,
		},
		{
			name:      "exactly at thresholds does not trigger",
			source:    model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: -5},
			target:    model.ChainHealth{TVL: 200e6, ProtocolCount: 15, TVLChange30dPct: 5},
			wantScore: 0,
			wantRec:   RecommendWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _, rec := Signal(tt.source, tt.target)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if rec != tt.wantRec {
				t.Errorf("recommendation = %q, want %q", rec, tt.wantRec)
			}
		})
	}
}

func TestSignalBounds(t *testing.T) {
	source := model.ChainHealth{TVL: 0, ProtocolCount: 0, TVLChange30dPct: -90}
	target := model.ChainHealth{TVL: 1e12, ProtocolCount: 1000, TVLChange30dPct: 500}

	score, _, _ := Signal(source, target)
	if score < 0 || score > 100 {
		t.Fatalf("score = %d, must stay within [0,100]", score)
	}
}

// Raising target TVL never lowers the score
func TestSignalMonotonicInTargetTVL(t *testing.T) {
	source := model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: -10}
	prev := -1
	for _, tvl := range []float64{50e6, 100e6, 250e6, 1e9, 1e12} {
		target := model.ChainHealth{TVL: tvl, ProtocolCount: 10, TVLChange30dPct: 0}
		score, _, _ := Signal(source, target)
		if score < prev {
			t.Fatalf("score dropped from %d to %d when target TVL rose to %v", prev, score, tvl)
		}
		prev = score
	}
}

func TestSignalReasons(t *testing.T) {
	source := model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: -12.3}
	target := model.ChainHealth{TVL: 300e6, ProtocolCount: 20, TVLChange30dPct: 8.1}

	_, reasons, _ := Signal(source, target)
	joined := strings.Join(reasons, "\n")
	for _, want := range []string{
		"Source chain declining (-12.3% 30d)",
		"Target chain growing (8.1% 30d)",
		"Target has 3.0x more TVL",
		"Target has 2.0x more protocols",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("reasons missing %q:\n%s", want, joined)
		}
	}
}

func TestSignalStableNote(t *testing.T) {
	source := model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: 1}
	target := model.ChainHealth{TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: 2}

	_, reasons, _ := Signal(source, target)
	if len(reasons) != 1 || !strings.Contains(reasons[0], "stable") {
		t.Fatalf("expected the stable note as the only reason, got %v", reasons)
	}
}

func TestSignalZeroDenominatorNotes(t *testing.T) {
	source := model.ChainHealth{TVL: 0, ProtocolCount: 0, TVLChange30dPct: 0}
	target := model.ChainHealth{TVL: 10, ProtocolCount: 2, TVLChange30dPct: 0}

	_, reasons, _ := Signal(source, target)
	joined := strings.Join(reasons, "\n")
	if !strings.Contains(joined, "$1 floor") {
		t.Error("expected a note about the TVL ratio floor")
	}
	if !strings.Contains(joined, "floor of 1") {
		t.Error("expected a note about the protocol ratio floor")
	}
}

// fakeHealth serves canned health records by lowercase chain name
type fakeHealth struct {
	records map[string]*model.ChainHealth
}

func (f *fakeHealth) ChainHealth(ctx context.Context, chain string) (*model.ChainHealth, error) {
	key := strings.ToLower(chain)
	if h, ok := f.records[key]; ok {
		return h, nil
	}
	return nil, apierror.NotFound("chain '%s' not found", chain)
}

func TestCompare(t *testing.T) {
	provider := &fakeHealth{records: map[string]*model.ChainHealth{
		"fantom": {Chain: "Fantom", TVL: 100e6, ProtocolCount: 10, TVLChange30dPct: -10, Trend: model.TrendDeclining},
		"solana": {Chain: "Solana", TVL: 300e6, ProtocolCount: 20, TVLChange30dPct: 8, Trend: model.TrendGrowing},
	}}
	comparator := NewComparator(provider)

	got, err := comparator.Compare(context.Background(), "Fantom", "Solana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MigrationSignalScore != 80 {
		t.Errorf("score = %d, want 80", got.MigrationSignalScore)
	}
	if got.Recommendation != RecommendStrong {
		t.Errorf("recommendation = %q, want %q", got.Recommendation, RecommendStrong)
	}
	if got.Source.Chain != "Fantom" || got.Target.Chain != "Solana" {
		t.Errorf("sides = %q/%q, want Fantom/Solana", got.Source.Chain, got.Target.Chain)
	}
}

func TestCompareFailsOnMissingSide(t *testing.T) {
	provider := &fakeHealth{records: map[string]*model.ChainHealth{
		"fantom": {Chain: "Fantom", TVL: 100e6},
	}}
	comparator := NewComparator(provider)

	_, err := comparator.Compare(context.Background(), "Fantom", "Atlantis")
	if !apierror.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCompareCarriesSurvivingSide(t *testing.T) {
	provider := &fakeHealth{records: map[string]*model.ChainHealth{
		"fantom": {Chain: "Fantom", TVL: 100e6},
	}}
	comparator := NewComparator(provider)

	_, err := comparator.Compare(context.Background(), "Fantom", "Atlantis")
	var e *apierror.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if e.Context["side"] != "target" {
		t.Errorf("side = %v, want target", e.Context["side"])
	}
	health, ok := e.Context["source_health"].(*model.ChainHealth)
	if !ok || health.Chain != "Fantom" {
		t.Errorf("source_health = %v, want the Fantom record", e.Context["source_health"])
	}

	_, err = comparator.Compare(context.Background(), "Atlantis", "Fantom")
	if !errors.As(err, &e) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if e.Context["side"] != "source" {
		t.Errorf("side = %v, want source", e.Context["side"])
	}
	health, ok = e.Context["target_health"].(*model.ChainHealth)
	if !ok || health.Chain != "Fantom" {
		t.Errorf("target_health = %v, want the Fantom record", e.Context["target_health"])
	}
}

func TestCompareBothSidesFailing(t *testing.T) {
	provider := &fakeHealth{records: map[string]*model.ChainHealth{}}
	comparator := NewComparator(provider)

	_, err := comparator.Compare(context.Background(), "Atlantis", "Mu")
	var e *apierror.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if e.Context["side"] != "source" {
		t.Errorf("side = %v, want source (reported first)", e.Context["side"])
	}
	if _, ok := e.Context["target_error"].(string); !ok {
		t.Errorf("target_error missing from context: %v", e.Context)
	}
}
