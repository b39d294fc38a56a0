// Package reliability guards the live websocket broadcast loop against
// failing status writes. internal/live.Server shares one breaker across all
// connections: a failed write closes its connection while the breaker is
// closed; once failures reach the limit the breaker opens, and status writes
// to every connection are skipped until the reset timeout elapses.
package reliability

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CircuitBreakerState represents the state of the circuit breaker
type CircuitBreakerState int

const (
	// StateClosed means the circuit breaker is closed and allowing requests
	StateClosed CircuitBreakerState = iota
	// StateOpen means the circuit breaker is open and rejecting requests
	StateOpen
	// StateHalfOpen means the circuit breaker is allowing limited requests to test recovery
	StateHalfOpen
)

// CircuitBreaker implements a circuit breaker pattern for broadcast writes
type CircuitBreaker struct {
	mu           sync.RWMutex
	state        CircuitBreakerState
	failureCount int
	successCount int
	lastFailTime time.Time
	nextRetry    time.Time

	// Configuration
	maxFailures   int
	resetTimeout  time.Duration
	halfOpenLimit int
}

// NewCircuitBreaker creates a new circuit breaker with configurable settings
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenLimit int) *CircuitBreaker {
	return &CircuitBreaker{
		state:         StateClosed,
		maxFailures:   maxFailures,
		resetTimeout:  resetTimeout,
		halfOpenLimit: halfOpenLimit,
	}
}

// Execute executes a function with circuit breaker protection
func (cb *CircuitBreaker) Execute(ctx context.Context, operation func() error) error {
	if !cb.allowRequest() {
		return fmt.Errorf("circuit breaker is open - request rejected")
	}

	err := operation()

	if err != nil {
		cb.recordFailure()
		return err
	}

	cb.recordSuccess()
	return nil
}

// allowRequest determines if a request should be allowed based on circuit breaker state
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Now().After(cb.nextRetry) {
			cb.state = StateHalfOpen
			cb.successCount = 0
			return true
		}
		return false
	case StateHalfOpen:
		return cb.successCount < cb.halfOpenLimit
	default:
		return false
	}
}

// recordSuccess records a successful operation
func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0

	if cb.state == StateHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.halfOpenLimit {
			cb.state = StateClosed
		}
	}
}

// recordFailure records a failed operation
func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.nextRetry = time.Now().Add(cb.resetTimeout)
	} else if cb.failureCount >= cb.maxFailures {
		cb.state = StateOpen
		cb.nextRetry = time.Now().Add(cb.resetTimeout)
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// GetMetrics returns current metrics of the circuit breaker
func (cb *CircuitBreaker) GetMetrics() (state CircuitBreakerState, failures int, successes int) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state, cb.failureCount, cb.successCount
}
