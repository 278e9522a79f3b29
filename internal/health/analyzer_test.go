package health

import (
	"context"
	"errors"
	"testing"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// fakeProvider serves canned universes for analyzer tests
type fakeProvider struct {
	chains    []model.ChainSnapshot
	history   map[string][]model.TvlHistoryPoint
	protocols []model.Protocol

	chainsErr  error
	historyErr error
}

func (f *fakeProvider) AllChains(ctx context.Context) ([]model.ChainSnapshot, error) {
	if f.chainsErr != nil {
		return nil, f.chainsErr
	}
	return f.chains, nil
}

func (f *fakeProvider) HistoricalTVL(ctx context.Context, chain string) ([]model.TvlHistoryPoint, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history[chain], nil
}

func (f *fakeProvider) AllProtocols(ctx context.Context) ([]model.Protocol, error) {
	return f.protocols, nil
}

// series builds a flat history of n points at the given TVL
func series(n int, tvl float64) []model.TvlHistoryPoint {
	points := make([]model.TvlHistoryPoint, n)
	for i := range points {
		points[i] = model.TvlHistoryPoint{Date: int64(i), TVL: tvl}
	}
	return points
}

func TestFormatTVL(t *testing.T) {
	tests := []struct {
		tvl      float64
		expected string
	}{
		{1e9, "$1.00B"},
		{999999999, "$1000.0M"},
		{2.345e9, "$2.35B"},
		{1e6, "$1.0M"},
		{999, "$999"},
		{1000, "$1K"},
		{1500, "$2K"},
		{0, "$0"},
	}

	for _, tt := range tests {
		got := FormatTVL(tt.tvl)
		if got != tt.expected {
			t.Errorf("FormatTVL(%v) = %q, want %q", tt.tvl, got, tt.expected)
		}
	}
}

func TestTrendFromHistory(t *testing.T) {
	doubled := series(35, 100)
	doubled[len(doubled)-1].TVL = 200 // +100% against the sample 30 back

	dropped := series(35, 100)
	dropped[len(dropped)-1].TVL = 50 // -50%

	nudged := series(35, 100)
	nudged[len(nudged)-1].TVL = 103 // +3%, inside the stable band

	tests := []struct {
		name      string
		history   []model.TvlHistoryPoint
		wantPct   float64
		wantTrend string
	}{
		{"growing at +100%", doubled, 100, model.TrendGrowing},
		{"declining at -50%", dropped, -50, model.TrendDeclining},
		{"stable at +3%", nudged, 3, model.TrendStable},
		{"series too short", series(30, 100), 0, model.TrendUnknown},
		{"empty series", nil, 0, model.TrendUnknown},
		{"zero baseline", series(35, 0), 0, model.TrendUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, trend := TrendFromHistory(tt.history)
			if pct != tt.wantPct {
				t.Errorf("pct = %v, want %v", pct, tt.wantPct)
			}
			if trend != tt.wantTrend {
				t.Errorf("trend = %q, want %q", trend, tt.wantTrend)
			}
		})
	}
}

func TestChainHealth(t *testing.T) {
	provider := &fakeProvider{
		chains: []model.ChainSnapshot{
			{Name: "Ethereum", TVL: 50e9, TokenSymbol: "ETH", ChainID: float64(1)},
			{Name: "Fantom", TVL: 100e6, TokenSymbol: "FTM"},
		},
		history: map[string][]model.TvlHistoryPoint{
			"Fantom": func() []model.TvlHistoryPoint {
				h := series(40, 200e6)
				h[len(h)-1].TVL = 100e6
				return h
			}(),
		},
		protocols: []model.Protocol{
			{Name: "SpookySwap", Chains: []string{"Fantom"}},
			{Name: "Curve", Chains: []string{"Ethereum", "Fantom"}},
			{Name: "Uniswap", Chains: []string{"Ethereum"}},
		},
	}
	analyzer := NewAnalyzer(provider)

	got, err := analyzer.ChainHealth(context.Background(), "fantom")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Chain != "Fantom" {
		t.Errorf("chain = %q, want canonical provider name", got.Chain)
	}
	if got.ProtocolCount != 2 {
		t.Errorf("protocol count = %d, want 2", got.ProtocolCount)
	}
	if got.Trend != model.TrendDeclining {
		t.Errorf("trend = %q, want declining", got.Trend)
	}
	if got.TVLChange30dPct != -50 {
		t.Errorf("pct = %v, want -50", got.TVLChange30dPct)
	}
	if got.TVLFormatted != "$100.0M" {
		t.Errorf("tvl_formatted = %q, want $100.0M", got.TVLFormatted)
	}
}

func TestChainHealthNotFound(t *testing.T) {
	provider := &fakeProvider{
		chains: []model.ChainSnapshot{{Name: "Ethereum", TVL: 1}},
	}
	analyzer := NewAnalyzer(provider)

	_, err := analyzer.ChainHealth(context.Background(), "atlantis")
	if !apierror.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	var structured *apierror.Error
	if !errors.As(err, &structured) {
		t.Fatal("expected structured error")
	}
	if _, ok := structured.Context["available"]; !ok {
		t.Error("expected an 'available' hint listing known chains")
	}
}

func TestChainHealthDegradesOnHistoryFailure(t *testing.T) {
	provider := &fakeProvider{
		chains:     []model.ChainSnapshot{{Name: "Ethereum", TVL: 1e9}},
		historyErr: errors.New("timeout"),
	}
	analyzer := NewAnalyzer(provider)

	got, err := analyzer.ChainHealth(context.Background(), "Ethereum")
	if err != nil {
		t.Fatalf("history failure must not fail the summary: %v", err)
	}
	if got.Trend != model.TrendUnknown {
		t.Errorf("trend = %q, want unknown", got.Trend)
	}
	if got.TVLChange30dPct != 0 {
		t.Errorf("pct = %v, want 0", got.TVLChange30dPct)
	}
}
