// Package circuitbreaker guards the analyzer against a misbehaving upstream
// telemetry provider: repeated fetch failures or an implausibly collapsed
// chain universe open the circuit, and the last known good universe is
// served until the provider recovers.
package circuitbreaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// State represents the current state of the circuit breaker
type State int

// Circuit breaker states
const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Tripped, provider considered unavailable
	StateHalfOpen              // Testing if the provider has recovered
)

// Thresholds defines the limits that will trigger the circuit breaker
type Thresholds struct {
	// Consecutive fetch failures before the circuit opens
	MaxFailureStreak int `json:"max_failure_streak"`

	// Minimum number of chains a credible universe snapshot contains
	MinUniverseSize int `json:"min_universe_size"`

	// Maximum tolerated drop in total universe TVL between consecutive
	// good snapshots, as a fraction (e.g. 0.8 for 80%)
	MaxTVLCollapse float64 `json:"max_tvl_collapse"`
}

// CircuitBreaker tracks upstream provider health. All methods are safe for
// concurrent use.
type CircuitBreaker struct {
	thresholds Thresholds

	state    State
	lastTrip time.Time

	// Duration before auto-reset attempt
	resetDelay time.Duration

	mu sync.RWMutex

	// Last universe snapshot that passed all checks
	lastGoodUniverse []model.ChainSnapshot
	lastGoodTVL      float64
	lastGoodAt       time.Time

	failureStreak    int
	successCount     int
	successThreshold int

	// Event callback for monitoring/alerting
	onTripCallback func(reason string)
}

// New creates a new CircuitBreaker with the provided thresholds
func New(t Thresholds) *CircuitBreaker {
	return &CircuitBreaker{
		thresholds:       t,
		state:            StateClosed,
		resetDelay:       5 * time.Minute,
		successThreshold: 3,
	}
}

// WithResetDelay sets a custom reset delay and returns the circuit breaker
func (cb *CircuitBreaker) WithResetDelay(delay time.Duration) *CircuitBreaker {
	cb.resetDelay = delay
	return cb
}

// WithSuccessThreshold sets the number of good snapshots needed to close the circuit
func (cb *CircuitBreaker) WithSuccessThreshold(threshold int) *CircuitBreaker {
	cb.successThreshold = threshold
	return cb
}

// WithTripCallback sets a callback function that is called when the circuit trips
func (cb *CircuitBreaker) WithTripCallback(callback func(reason string)) *CircuitBreaker {
	cb.onTripCallback = callback
	return cb
}

// Allow reports whether an upstream fetch should be attempted. When the
// circuit is open and the reset delay has elapsed it transitions to
// half-open and allows a trial fetch.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.RLock()
	state := cb.state
	lastTrip := cb.lastTrip
	cb.mu.RUnlock()

	if state == StateOpen {
		if time.Since(lastTrip) > cb.resetDelay {
			cb.transitionToHalfOpen()
			return nil
		}
		return errors.New("circuit breaker open: upstream provider unavailable")
	}
	return nil
}

// RecordFailure notes a failed upstream fetch and trips the circuit once
// the failure streak reaches the threshold.
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureStreak++
	cb.successCount = 0
	if cb.thresholds.MaxFailureStreak > 0 && cb.failureStreak >= cb.thresholds.MaxFailureStreak {
		cb.trip(fmt.Sprintf("upstream failure streak reached %d: %v", cb.failureStreak, err))
	}
}

// RecordUniverse evaluates a freshly fetched chain universe. A snapshot that
// is implausibly small, or whose total TVL collapsed relative to the last
// good one, trips the circuit and returns an error; a good snapshot is
// stored as the fallback universe.
func (cb *CircuitBreaker) RecordUniverse(universe []model.ChainSnapshot) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if len(universe) == 0 {
		reason := "empty chain universe from provider"
		cb.trip(reason)
		return errors.New(reason)
	}

	if cb.thresholds.MinUniverseSize > 0 && len(universe) < cb.thresholds.MinUniverseSize {
		reason := fmt.Sprintf("universe too small: got %d chains, need %d",
			len(universe), cb.thresholds.MinUniverseSize)
		cb.trip(reason)
		return errors.New(reason)
	}

	totalTVL := 0.0
	for _, s := range universe {
		totalTVL += s.TVL
	}

	if cb.thresholds.MaxTVLCollapse > 0 && cb.lastGoodTVL > 1.0 {
		drop := (cb.lastGoodTVL - totalTVL) / cb.lastGoodTVL
		if drop > cb.thresholds.MaxTVLCollapse {
			reason := fmt.Sprintf("universe TVL collapsed %.1f%% (threshold: %.1f%%)",
				drop*100, cb.thresholds.MaxTVLCollapse*100)
			cb.trip(reason)
			return errors.New(reason)
		}
	}

	// Snapshot accepted
	cb.failureStreak = 0
	cb.lastGoodUniverse = append([]model.ChainSnapshot(nil), universe...)
	cb.lastGoodTVL = totalTVL
	cb.lastGoodAt = time.Now()

	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = StateClosed
			cb.successCount = 0
			logrus.Info("Circuit breaker closed: upstream has recovered")
		}
	}
	return nil
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset forcibly resets the circuit breaker to closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failureStreak = 0
	cb.successCount = 0
	logrus.Info("Circuit breaker manually reset to closed state")
}

// LastGoodUniverse returns a copy of the most recent accepted universe
// snapshot and when it was recorded. Returns nil when none exists.
func (cb *CircuitBreaker) LastGoodUniverse() ([]model.ChainSnapshot, time.Time) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	if cb.lastGoodUniverse == nil {
		return nil, time.Time{}
	}
	universe := make([]model.ChainSnapshot, len(cb.lastGoodUniverse))
	copy(universe, cb.lastGoodUniverse)
	return universe, cb.lastGoodAt
}

// transitionToHalfOpen changes the circuit state to half-open for testing recovery
func (cb *CircuitBreaker) transitionToHalfOpen() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen {
		cb.state = StateHalfOpen
		cb.successCount = 0
		logrus.Info("Circuit breaker half-open: probing upstream recovery")
	}
}

// trip sets the circuit breaker to open state with the current time.
// Callers must hold cb.mu.
func (cb *CircuitBreaker) trip(reason string) {
	cb.state = StateOpen
	cb.lastTrip = time.Now()
	logrus.Warnf("Circuit breaker tripped: %s", reason)

	if cb.onTripCallback != nil {
		go cb.onTripCallback(reason)
	}
}
