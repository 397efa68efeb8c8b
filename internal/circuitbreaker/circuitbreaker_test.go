//go:build !integration

package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

var errBackend = errors.New("server selection timeout")

// fakeClock drives the cool-down without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New(cfg)
	cb.now = clock.Now
	return cb, clock
}

func fail(cb *CircuitBreaker, times int) {
	for i := 0; i < times; i++ {
		_ = cb.Execute(context.Background(), func() error { return errBackend })
	}
}

func succeed(cb *CircuitBreaker) error {
	return cb.Execute(context.Background(), func() error { return nil })
}

func TestNew_Defaults(t *testing.T) {
	cb := New(Config{})

	assert.Equal(t, "mongodb", cb.Name())
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 5, cb.config.FailureThreshold)
	assert.Equal(t, 2, cb.config.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cb.config.Timeout)
	assert.Equal(t, 1, cb.config.MaxProbes)
	assert.NotNil(t, cb.config.IsFailure)
}

func TestCircuitBreaker_Execute(t *testing.T) {
	tests := []struct {
		name          string
		failures      int
		expectedState State
		expectedErr   error
		expectCall    bool
	}{
		{name: "closed passes calls", failures: 0, expectedState: StateClosed, expectCall: true},
		{name: "below threshold stays closed", failures: 1, expectedState: StateClosed, expectCall: true},
		{name: "threshold opens", failures: 2, expectedState: StateOpen, expectedErr: ErrCircuitOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, _ := newTestBreaker(Config{Name: "test", FailureThreshold: 2, Timeout: time.Minute})
			fail(cb, tt.failures)

			called := false
			err := cb.Execute(context.Background(), func() error {
				called = true
				return nil
			})

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectCall, called)
			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestCircuitBreaker_ReturnsBackendError(t *testing.T) {
	cb := New(Config{Name: "test"})
	wrapped := fmt.Errorf("save shipment: %w", errBackend)

	err := cb.Execute(context.Background(), func() error { return wrapped })

	assert.Same(t, wrapped, err)
}

func TestCircuitBreaker_DomainErrorsDoNotTrip(t *testing.T) {
	domainErrs := []error{
		fmt.Errorf("%w: shipment s-1", model.ErrNotFound),
		fmt.Errorf("%w: quantity", model.ErrValidation),
		model.ErrInvalidArgument,
		model.ErrConsistency,
		context.Canceled,
	}
	cb := New(Config{Name: "test", FailureThreshold: 1})

	for _, domainErr := range domainErrs {
		err := cb.Execute(context.Background(), func() error { return domainErr })
		assert.Equal(t, domainErr, err)
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.GetStats().ConsecutiveFailures)
}

func TestCircuitBreaker_CustomIsFailure(t *testing.T) {
	cb := New(Config{
		Name:             "test",
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return errors.Is(err, errBackend) },
	})

	_ = cb.Execute(context.Background(), func() error { return errors.New("duplicate key") })
	assert.Equal(t, StateClosed, cb.State())

	fail(cb, 1)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_CancelledContextSkipsCall(t *testing.T) {
	cb := New(Config{Name: "test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestCircuitBreaker_Recovery(t *testing.T) {
	var transitions []string
	cb, clock := newTestBreaker(Config{
		Name:             "test",
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, fmt.Sprintf("%s:%s->%s", name, from, to))
		},
	})

	fail(cb, 2)
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(30 * time.Second)
	assert.ErrorIs(t, succeed(cb), ErrCircuitOpen)

	clock.Advance(30 * time.Second)
	require.NoError(t, succeed(cb))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, succeed(cb))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{
		"test:closed->open",
		"test:open->half-open",
		"test:half-open->closed",
	}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(Config{Name: "test", FailureThreshold: 3, Timeout: time.Minute})
	fail(cb, 3)
	clock.Advance(time.Minute)

	fail(cb, 1)

	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, succeed(cb), ErrCircuitOpen)
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	cb, clock := newTestBreaker(Config{Name: "test", FailureThreshold: 1, Timeout: time.Minute, MaxProbes: 1})
	fail(cb, 1)
	clock.Advance(time.Minute)

	probing := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(context.Background(), func() error {
			close(probing)
			<-release
			return nil
		})
	}()
	<-probing

	assert.ErrorIs(t, succeed(cb), ErrCircuitOpen)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateHalfOpen, cb.State())
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb, _ := newTestBreaker(Config{Name: "sessions", FailureThreshold: 2, Timeout: time.Minute})

	stats := cb.GetStats()
	assert.Equal(t, "sessions", stats.Name)
	assert.Equal(t, "closed", stats.State)
	assert.True(t, stats.IsHealthy)

	fail(cb, 2)
	_ = succeed(cb)

	stats = cb.GetStats()
	assert.Equal(t, "open", stats.State)
	assert.False(t, stats.IsHealthy)
	assert.Equal(t, 2, stats.ConsecutiveFailures)
	assert.EqualValues(t, 1, stats.Rejected)
	assert.Equal(t, errBackend.Error(), stats.LastError)
	assert.False(t, stats.LastFailure.IsZero())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
