package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
	"github.com/yourorg/chain-migration-analyzer/internal/config"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

func TestAllChains(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/chains" {
			t.Errorf("path = %q, want /v2/chains", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name": "Ethereum", "tvl": 50000000000, "tokenSymbol": "ETH", "chainId": 1},
			{"name": "Solana", "tvl": 5000000000, "tokenSymbol": "SOL", "chainId": null}
		]`))
	}))
	defer server.Close()

	client := NewDefiLlamaClient(config.Config{DefiLlamaURL: server.URL})
	chains, err := client.AllChains(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chains) != 2 {
		t.Fatalf("got %d chains, want 2", len(chains))
	}
	if chains[0].Name != "Ethereum" || chains[0].TVL != 50e9 {
		t.Errorf("first chain = %+v", chains[0])
	}
	if chains[1].ChainID != nil {
		t.Errorf("null chainId must decode to nil, got %v", chains[1].ChainID)
	}
}

func TestHistoricalTVLEscapesChainName(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`[{"date": 1700000000, "tvl": 100.5}]`))
	}))
	defer server.Close()

	client := NewDefiLlamaClient(config.Config{DefiLlamaURL: server.URL})
	history, err := client.HistoricalTVL(context.Background(), "OP Mainnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].TVL != 100.5 {
		t.Fatalf("history = %+v", history)
	}
	if !strings.Contains(gotPath, "OP%20Mainnet") {
		t.Errorf("path = %q, chain name must be escaped", gotPath)
	}
}

func TestUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewDefiLlamaClient(config.Config{DefiLlamaURL: server.URL})
	_, err := client.AllChains(context.Background())
	if !apierror.IsUpstream(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error = %q, want the status code in the message", err.Error())
	}
}

func TestAllBridges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bridges" {
			t.Errorf("path = %q, want /bridges", r.URL.Path)
		}
		w.Write([]byte(`{"bridges": [
			{"id": 1, "name": "wormhole", "displayName": "Portal (Wormhole)", "lastDailyVolume": 12345678.9}
		]}`))
	}))
	defer server.Close()

	client := NewDefiLlamaClient(config.Config{BridgesURL: server.URL})
	bridges, err := client.AllBridges(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bridges) != 1 || bridges[0].DisplayName != "Portal (Wormhole)" {
		t.Fatalf("bridges = %+v", bridges)
	}
}

func TestBridgeRisk(t *testing.T) {
	tests := []struct {
		name      string
		tvl       string
		messages  string
		wantScore int
		wantLevel string
	}{
		{"healthy network", "2500000000", "500000", 0, model.RiskLow},
		{"moderate tvl high activity", "500000000", "500000", 10, model.RiskLow},
		{"moderate tvl quiet network", "500000000", "5000", 30, model.RiskMedium},
		{"thin and quiet", "50000000", "100", 50, model.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/scorecards" {
					t.Errorf("path = %q, want /scorecards", r.URL.Path)
				}
				w.Write([]byte(`{
					"tvl": "` + tt.tvl + `",
					"24h_volume": "100000000",
					"total_volume": "50000000000",
					"24h_messages": "` + tt.messages + `",
					"total_messages": "1000000000"
				}`))
			}))
			defer server.Close()

			client := NewWormholeClient(config.Config{WormholeURL: server.URL})
			got, err := client.BridgeRisk(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.RiskScore != tt.wantScore {
				t.Errorf("score = %d, want %d", got.RiskScore, tt.wantScore)
			}
			if got.RiskLevel != tt.wantLevel {
				t.Errorf("level = %q, want %q", got.RiskLevel, tt.wantLevel)
			}
			if got.Bridge != "Wormhole" {
				t.Errorf("bridge = %q", got.Bridge)
			}
			if len(got.Factors) != 2 {
				t.Errorf("factors = %v, want one TVL and one activity entry", got.Factors)
			}
		})
	}
}

func TestRequestTimeoutBoundsSlowUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewDefiLlamaClient(config.Config{
		DefiLlamaURL:   server.URL,
		RequestTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := client.AllChains(context.Background())
	elapsed := time.Since(start)

	if !apierror.IsUpstream(err) {
		t.Fatalf("expected upstream error from a stalled provider, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("call took %v, the configured timeout must bound the whole fetch", elapsed)
	}
}

func TestTopChainPairs(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-chain-pairs-by-num-transfers" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			{"emitterChain": 1, "destinationChain": 2, "numberOfTransfers": 41234},
			{"emitterChain": 2, "destinationChain": 23, "numberOfTransfers": 9876}
		]`))
	}))
	defer server.Close()

	client := NewWormholeClient(config.Config{WormholeURL: server.URL})
	pairs, err := client.TopChainPairs(context.Background(), "30d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "timeSpan=30d" {
		t.Errorf("query = %q, want timeSpan=30d", gotQuery)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if pairs[0].EmitterChain != 1 || pairs[0].DestinationChain != 2 || pairs[0].Transfers != 41234 {
		t.Errorf("first pair = %+v", pairs[0])
	}
}

func TestTopChainPairsClampsSpan(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewWormholeClient(config.Config{WormholeURL: server.URL})
	if _, err := client.TopChainPairs(context.Background(), "90d"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "timeSpan=7d" {
		t.Errorf("query = %q, unsupported spans must fall back to 7d", gotQuery)
	}
}

func TestTopAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top-assets-by-volume" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`[
			{"emitterChain": 2, "tokenChain": 2, "tokenAddress": "0xc02a", "symbol": "WETH", "volume": "123456789.5"}
		]`))
	}))
	defer server.Close()

	client := NewWormholeClient(config.Config{WormholeURL: server.URL})
	assets, err := client.TopAssets(context.Background(), "7d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 || assets[0].Symbol != "WETH" || assets[0].Volume != "123456789.5" {
		t.Fatalf("assets = %+v", assets)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1234.5", 1234.5},
		{"", 0},
		{"garbage", 0},
		{"-10", -10},
	}
	for _, tt := range tests {
		if got := parseAmount(tt.in); got != tt.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		if got := groupDigits(tt.in); got != tt.want {
			t.Errorf("groupDigits(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
