// Package config provides configuration loading and management for the application.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server port
	Port string

	// Base URLs for upstream data providers
	DefiLlamaURL string
	BridgesURL   string
	WormholeURL  string

	// OpenTelemetry endpoint for observability
	OtelEndpoint string

	// Timeout applied to every upstream fetch
	RequestTimeout time.Duration

	// Cache lifetimes
	DefaultCacheTTL time.Duration
	UniverseTTL     time.Duration
	ScanTTL         time.Duration

	// Decline-scan tuning
	ScanWorkers        int
	ScanFetchesPerSec  float64
	DeclineThresholdPc float64

	// Circuit breaker settings for upstream protection
	BreakerFailureStreak int
	BreakerMinUniverse   int
	BreakerResetDelay    time.Duration

	// Feature toggles
	EnableMetrics bool
	EnableSigning bool

	// Result export
	WebhookURL    string
	WebhookAPIKey string
}

// Load creates a new Config from environment variables
func Load() Config {
	return Config{
		Port:                 GetEnvOrDefault("PORT", "8080"),
		DefiLlamaURL:         GetEnvOrDefault("DEFILLAMA_URL", "https://api.llama.fi"),
		BridgesURL:           GetEnvOrDefault("BRIDGES_URL", "https://bridges.llama.fi"),
		WormholeURL:          GetEnvOrDefault("WORMHOLE_URL", "https://api.wormholescan.io/api/v1"),
		OtelEndpoint:         GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		RequestTimeout:       GetEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		DefaultCacheTTL:      GetEnvAsDuration("CACHE_TTL", 5*time.Minute),
		UniverseTTL:          GetEnvAsDuration("UNIVERSE_CACHE_TTL", 10*time.Minute),
		ScanTTL:              GetEnvAsDuration("SCAN_CACHE_TTL", 15*time.Minute),
		ScanWorkers:          GetEnvAsInt("SCAN_WORKERS", 4),
		ScanFetchesPerSec:    GetEnvAsFloat("SCAN_FETCH_RPS", 5.0),
		DeclineThresholdPc:   GetEnvAsFloat("DECLINE_THRESHOLD_PCT", -10.0),
		BreakerFailureStreak: GetEnvAsInt("BREAKER_FAILURE_STREAK", 3),
		BreakerMinUniverse:   GetEnvAsInt("BREAKER_MIN_UNIVERSE", 25),
		BreakerResetDelay:    GetEnvAsDuration("BREAKER_RESET_DELAY", 5*time.Minute),
		EnableMetrics:        GetEnvAsBool("ENABLE_METRICS", true),
		EnableSigning:        GetEnvAsBool("ENABLE_SIGNING", false),
		WebhookURL:           GetEnvOrDefault("WEBHOOK_URL", ""),
		WebhookAPIKey:        GetEnvOrDefault("WEBHOOK_API_KEY", ""),
	}
}

// GetEnv retrieves an environment variable and whether it exists
func GetEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := GetEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := GetEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsFloat retrieves an environment variable as a float with a default value
func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := GetEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvAsBool retrieves an environment variable as a boolean with a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := GetEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := GetEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
