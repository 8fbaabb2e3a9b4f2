package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestCircuitBreakerStaysClosedBelowThreshold tests that failures below
// the threshold keep the breaker closed
func TestCircuitBreakerStaysClosedBelowThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
}

// TestCircuitBreakerOpensAtThreshold tests that the breaker opens once
// the failure threshold is hit inside the window
func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())
}

// TestCircuitBreakerSuccessResets tests that a success clears the
// failure history and closes the breaker
func TestCircuitBreakerSuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())

	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
}

// TestCircuitBreakerReopensAfterOpenDuration tests that the breaker
// closes again once the open duration passes
func TestCircuitBreakerReopensAfterOpenDuration(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute, 10*time.Millisecond)

	cb.RecordFailure()
	assert.True(t, cb.IsOpen())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, cb.IsOpen())
}

// TestCircuitBreakerWindowExpiry tests that stale failures outside the
// rolling window no longer count toward the threshold
func TestCircuitBreakerWindowExpiry(t *testing.T) {
	cb := NewCircuitBreaker(2, 10*time.Millisecond, time.Minute)

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	cb.RecordFailure()
	assert.False(t, cb.IsOpen())
}

// TestCircuitBreakerNilReceiver tests nil receiver safety
func TestCircuitBreakerNilReceiver(t *testing.T) {
	var cb *CircuitBreaker
	cb.RecordFailure()
	cb.RecordSuccess()
	assert.False(t, cb.IsOpen())
}
