package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/apierror"
)

// errInvalidCacheEntry signals a cache entry of an unexpected type, which
// can only happen when two endpoints share a key
var errInvalidCacheEntry = errors.New("unexpected cache entry type")

// writeJSON serializes data with the standard headers
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.Warnf("Failed to encode response: %v", err)
	}
}

// writeError maps an analyzer error onto an HTTP status and serializes it.
// Structured errors keep their context fields; everything else becomes a
// plain {"error": ...} object.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := apierror.KindOf(err); ok {
		switch kind {
		case apierror.KindNotFound:
			status = http.StatusNotFound
		case apierror.KindInvalidInput:
			status = http.StatusBadRequest
		case apierror.KindUpstreamUnavailable:
			status = http.StatusBadGateway
		}
	}

	logrus.Warnf("Request failed (%d): %v", status, err)

	var structured *apierror.Error
	if errors.As(err, &structured) {
		writeJSON(w, status, structured)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// errorValue renders a side failure inside a larger result document
func errorValue(err error) interface{} {
	var structured *apierror.Error
	if errors.As(err, &structured) {
		return structured
	}
	return map[string]string{"error": err.Error()}
}

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// withMiddleware wraps the router with CORS headers, rate limiting and
// request metrics
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if s.rateLimit != nil && !s.rateLimit.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded"})
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if s.metrics != nil {
			endpoint := endpointLabel(r.URL.Path)
			s.metrics.requestCounter.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
			s.metrics.requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
			s.metrics.circuitState.Set(float64(s.breaker.GetState()))
			s.metrics.cacheEntries.Set(float64(s.results.Len()))
		}
	})
}

// endpointLabel reduces a request path to a bounded metrics label, keeping
// only the first two path segments so chain names never explode cardinality
func endpointLabel(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 && parts[0] == "api" {
		return "/api/" + parts[1]
	}
	if len(parts) > 0 && parts[0] != "" {
		return "/" + parts[0]
	}
	return "/"
}

// queryInt reads an integer query parameter with a default
func queryInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultValue
}

// queryFloat reads a float query parameter with a default
func queryFloat(r *http.Request, key string, defaultValue float64) float64 {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

// getEnvFloat parses a float from an environment variable or returns the default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		logrus.Warnf("Invalid float in %s, using default: %v", key, defaultValue)
	}
	return defaultValue
}

// getEnvInt parses an integer from an environment variable or returns the default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logrus.Warnf("Invalid integer in %s, using default: %v", key, defaultValue)
	}
	return defaultValue
}

// getEnvDuration parses a duration from an environment variable or returns the default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		logrus.Warnf("Invalid duration in %s, using default: %v", key, defaultValue)
	}
	return defaultValue
}
