package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// CircuitBreaker opens after maxFailures failures inside window and stays
// open for timeout. It then lets a single probe through; the probe's result
// closes or reopens it.
type CircuitBreaker struct {
	maxFailures     int
	window          time.Duration
	timeout         time.Duration
	failures        []time.Time
	lastFailureTime time.Time
	state           State
	probing         bool
	now             func() time.Time
	mu              sync.Mutex
}

func NewCircuitBreaker(maxFailures int, timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreakerWithWindow(maxFailures, timeout, 60*time.Second)
}

func NewCircuitBreakerWithWindow(maxFailures int, timeout time.Duration, window time.Duration) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		window:      window,
		timeout:     timeout,
		state:       StateClosed,
		failures:    make([]time.Time, 0, maxFailures),
		now:         time.Now,
	}
}

// Execute runs fn unless the circuit is open, in which case fallback runs
// instead (or ErrOpen is returned when fallback is nil). fn is called without
// holding the breaker's lock.
func (cb *CircuitBreaker) Execute(fn func() error, fallback func() error) error {
	return cb.ExecuteContext(context.Background(), fn, fallback)
}

// ExecuteContext is Execute for calls made on behalf of ctx. A failure seen
// after ctx is done belongs to the caller, not to the protected service, and
// is not counted.
func (cb *CircuitBreaker) ExecuteContext(ctx context.Context, fn func() error, fallback func() error) error {
	if !cb.allow() {
		if fallback != nil {
			return fallback()
		}
		return ErrOpen
	}

	err := fn()
	if err != nil && ctx.Err() != nil {
		cb.release()
		return err
	}
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.timeout {
			return false
		}
		cb.state = StateHalfOpen
		cb.probing = true
		return true
	case StateHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return true
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	if err != nil {
		cb.lastFailureTime = now
		cb.failures = append(cb.failures, now)
		cb.cleanOldFailures(now)

		if len(cb.failures) >= cb.maxFailures || cb.state == StateHalfOpen {
			cb.state = StateOpen
		}
		cb.probing = false
		return
	}

	cb.cleanOldFailures(now)
	if cb.state == StateHalfOpen {
		cb.state = StateClosed
		cb.failures = cb.failures[:0]
	}
	cb.probing = false
}

// release frees a half-open probe slot without judging the service.
func (cb *CircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
}

func (cb *CircuitBreaker) cleanOldFailures(now time.Time) {
	cutoff := now.Add(-cb.window)
	keep := 0
	for _, t := range cb.failures {
		if t.After(cutoff) {
			cb.failures[keep] = t
			keep++
		}
	}
	cb.failures = cb.failures[:keep]
}

func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
