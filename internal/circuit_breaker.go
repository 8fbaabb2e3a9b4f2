package internal

import (
	"sync"
	"time"
)

// CircuitBreaker is a lightweight in-memory circuit breaker guarding gateway
// calls. After threshold failures inside the rolling window it opens for
// openDuration and calls fail fast instead of piling onto a struggling
// backend.
type CircuitBreaker struct {
	mu           sync.Mutex
	threshold    int
	window       time.Duration
	openDuration time.Duration

	failureCount int
	windowStart  time.Time
	openUntil    time.Time
}

// NewCircuitBreaker creates a configured circuit breaker.
func NewCircuitBreaker(threshold int, window, openDuration time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold:    threshold,
		window:       window,
		openDuration: openDuration,
	}
}

// RecordFailure records a failure occurrence and opens the breaker if the
// threshold is reached inside the window.
func (cb *CircuitBreaker) RecordFailure() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	if cb.failureCount == 0 || now.Sub(cb.windowStart) > cb.window {
		cb.failureCount = 0
		cb.windowStart = now
	}
	cb.failureCount++

	if cb.failureCount >= cb.threshold {
		cb.openUntil = now.Add(cb.openDuration)
	}
}

// RecordSuccess resets failure history when calls succeed.
func (cb *CircuitBreaker) RecordSuccess() {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.openUntil = time.Time{}
}

// IsOpen returns true if the breaker is currently open.
func (cb *CircuitBreaker) IsOpen() bool {
	if cb == nil {
		return false
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return time.Now().Before(cb.openUntil)
}
