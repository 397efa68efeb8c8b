// Package circuitbreaker guards calls to the document store. A breaker opens
// after consecutive infrastructure failures and probes the backend again once
// its cool-down has passed.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
	"github.com/guttosm/shipment-packaging/internal/logger"
	"github.com/guttosm/shipment-packaging/internal/metrics"
)

// ErrCircuitOpen is returned without calling the backend while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker state.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateHalfOpen lets a limited number of probes through.
	StateHalfOpen
	// StateOpen rejects calls until the cool-down has passed.
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// Name labels logs and metrics.
	Name string
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold int
	// SuccessThreshold is the number of successful probes that closes it again.
	SuccessThreshold int
	// Timeout is the cool-down before an open breaker admits probes.
	Timeout time.Duration
	// MaxProbes caps concurrent calls while half-open.
	MaxProbes int
	// IsFailure decides whether an error counts against the backend.
	// Defaults to DefaultIsFailure.
	IsFailure func(error) bool
	// OnStateChange is called after every transition, outside the lock.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns the configuration used for the MongoDB repositories.
func DefaultConfig() Config {
	return Config{
		Name:             "mongodb",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		MaxProbes:        1,
	}
}

// DefaultIsFailure ignores domain errors and caller cancellation. Those say
// nothing about the health of the store.
func DefaultIsFailure(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, model.ErrNotFound),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrInvalidArgument),
		errors.Is(err, model.ErrConsistency):
		return false
	}
	return true
}

// CircuitBreaker implements the circuit breaker pattern.
type CircuitBreaker struct {
	config Config
	now    func() time.Time

	mu           sync.Mutex
	state        State
	failures     int
	successes    int
	probes       int
	openedAt     time.Time
	lastFailure  time.Time
	lastError    string
	rejected     int64
	stateChanged time.Time
}

// New creates a closed circuit breaker. Zero thresholds fall back to DefaultConfig.
func New(config Config) *CircuitBreaker {
	defaults := DefaultConfig()
	if config.Name == "" {
		config.Name = defaults.Name
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = defaults.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxProbes <= 0 {
		config.MaxProbes = defaults.MaxProbes
	}
	if config.IsFailure == nil {
		config.IsFailure = DefaultIsFailure
	}
	cb := &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
	cb.stateChanged = cb.now()
	metrics.SetCircuitBreakerState(config.Name, float64(StateClosed))
	return cb
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute runs fn unless the breaker is open. Errors from fn are returned
// unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if transition, err := cb.admit(); err != nil {
		metrics.RecordCircuitBreakerRejection(cb.config.Name)
		return err
	} else if transition != nil {
		cb.notify(ctx, *transition)
	}

	err := fn()

	if transition := cb.record(err); transition != nil {
		cb.notify(ctx, *transition)
	}
	return err
}

type transition struct {
	from, to State
	err      string
}

// admit reserves a slot for one call.
func (cb *CircuitBreaker) admit() (*transition, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	var t *transition
	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.config.Timeout {
			cb.rejected++
			return nil, ErrCircuitOpen
		}
		t = cb.setState(StateHalfOpen)
		cb.successes = 0
		cb.probes = 0
	}
	if cb.state == StateHalfOpen {
		if cb.probes >= cb.config.MaxProbes {
			cb.rejected++
			return nil, ErrCircuitOpen
		}
		cb.probes++
	}
	return t, nil
}

func (cb *CircuitBreaker) record(err error) *transition {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen && cb.probes > 0 {
		cb.probes--
	}
	if !cb.config.IsFailure(err) {
		cb.failures = 0
		if cb.state != StateHalfOpen {
			return nil
		}
		cb.successes++
		if cb.successes < cb.config.SuccessThreshold {
			return nil
		}
		cb.successes = 0
		return cb.setState(StateClosed)
	}

	cb.failures++
	cb.lastFailure = cb.now()
	cb.lastError = err.Error()
	switch {
	case cb.state == StateHalfOpen,
		cb.state == StateClosed && cb.failures >= cb.config.FailureThreshold:
		cb.openedAt = cb.lastFailure
		t := cb.setState(StateOpen)
		t.err = cb.lastError
		return t
	}
	return nil
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to State) *transition {
	from := cb.state
	cb.state = to
	cb.stateChanged = cb.now()
	return &transition{from: from, to: to}
}

func (cb *CircuitBreaker) notify(ctx context.Context, t transition) {
	metrics.SetCircuitBreakerState(cb.config.Name, float64(t.to))

	event := logger.Ctx(ctx).Info()
	if t.to == StateOpen {
		event = logger.Ctx(ctx).Warn().Str("last_error", t.err)
	}
	event.
		Str("circuit_breaker", cb.config.Name).
		Str("from", t.from.String()).
		Str("to", t.to.String()).
		Msg("Circuit breaker state changed")

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, t.from, t.to)
	}
}

// State returns the current state. An open breaker whose cool-down has
// passed still reports open until the next call probes it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen reports whether calls are currently rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a snapshot for the readiness probe.
type Stats struct {
	Name                string
	State               string
	ConsecutiveFailures int
	Rejected            int64
	LastFailure         time.Time
	LastError           string
	Since               time.Time
	IsHealthy           bool
}

// GetStats returns a snapshot of the breaker.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Stats{
		Name:                cb.config.Name,
		State:               cb.state.String(),
		ConsecutiveFailures: cb.failures,
		Rejected:            cb.rejected,
		LastFailure:         cb.lastFailure,
		LastError:           cb.lastError,
		Since:               cb.stateChanged,
		IsHealthy:           cb.state == StateClosed,
	}
}
