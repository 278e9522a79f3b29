package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.DefiLlamaURL != "https://api.llama.fi" {
		t.Errorf("defillama url = %q", cfg.DefiLlamaURL)
	}
	if cfg.UniverseTTL != 10*time.Minute {
		t.Errorf("universe ttl = %v, want 10m", cfg.UniverseTTL)
	}
	if cfg.ScanTTL != 15*time.Minute {
		t.Errorf("scan ttl = %v, want 15m", cfg.ScanTTL)
	}
	if cfg.DeclineThresholdPc != -10.0 {
		t.Errorf("decline threshold = %v, want -10", cfg.DeclineThresholdPc)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SCAN_WORKERS", "8")
	t.Setenv("SCAN_FETCH_RPS", "2.5")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ENABLE_SIGNING", "true")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("port = %q, want 9999", cfg.Port)
	}
	if cfg.ScanWorkers != 8 {
		t.Errorf("workers = %d, want 8", cfg.ScanWorkers)
	}
	if cfg.ScanFetchesPerSec != 2.5 {
		t.Errorf("rps = %v, want 2.5", cfg.ScanFetchesPerSec)
	}
	if cfg.DefaultCacheTTL != 90*time.Second {
		t.Errorf("cache ttl = %v, want 90s", cfg.DefaultCacheTTL)
	}
	if !cfg.EnableSigning {
		t.Error("signing toggle not read")
	}
}

func TestMalformedEnvFallsBack(t *testing.T) {
	t.Setenv("SCAN_WORKERS", "many")
	t.Setenv("CACHE_TTL", "soon")

	cfg := Load()
	if cfg.ScanWorkers != 4 {
		t.Errorf("workers = %d, want the default 4", cfg.ScanWorkers)
	}
	if cfg.DefaultCacheTTL != 5*time.Minute {
		t.Errorf("cache ttl = %v, want the default 5m", cfg.DefaultCacheTTL)
	}
}
