package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig tunes the breaker in front of an external provider.
// Zero values fall back to the defaults below.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
}

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
)

// CircuitBreaker stops hammering a provider that keeps failing. After
// FailureThreshold consecutive failures it rejects requests for
// OpenTimeout, then admits a single probe request: a successful probe
// closes the breaker, a failed one restarts the cool-off.
//
// The state is derived rather than stored: a zero openedAt means closed,
// a recent openedAt means open, an elapsed one means half-open.
type CircuitBreaker struct {
	mu          sync.Mutex
	threshold   int
	openTimeout time.Duration

	failures int
	openedAt time.Time
	probing  bool
	now      func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}

	return &CircuitBreaker{
		threshold:   cfg.FailureThreshold,
		openTimeout: cfg.OpenTimeout,
		now:         time.Now,
	}
}

// Allow reports whether a request may proceed. In the half-open window it
// admits one probe at a time.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openedAt.IsZero() {
		return nil
	}
	if b.now().Sub(b.openedAt) < b.openTimeout {
		return ErrCircuitOpen
	}
	if b.probing {
		return ErrCircuitOpen
	}
	b.probing = true
	return nil
}

// RecordSuccess resets the failure streak and closes an open breaker.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.openedAt = time.Time{}
	b.probing = false
}

// RecordFailure counts a failed request. While open or probing it restarts
// the cool-off instead of extending the streak.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.probing || !b.openedAt.IsZero() {
		b.openedAt = b.now()
		b.probing = false
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.openedAt.IsZero():
		return CircuitStateClosed
	case b.now().Sub(b.openedAt) < b.openTimeout:
		return CircuitStateOpen
	default:
		return CircuitStateHalfOpen
	}
}
