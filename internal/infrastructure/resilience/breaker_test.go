package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("collaborator down")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
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

func call(b *Breaker, healthy bool) error {
	return b.Guard(func() error {
		if healthy {
			return nil
		}
		return errDown
	})
}

func TestBreakerTrips(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		calls   []bool
		want    State
		wantErr error
	}{
		{
			name:   "healthy calls keep it closed",
			policy: Policy{TripAfter: 2},
			calls:  []bool{true, true, true},
			want:   StateClosed,
		},
		{
			name:   "failure streak opens it",
			policy: Policy{TripAfter: 3},
			calls:  []bool{false, false, false},
			want:   StateOpen,
		},
		{
			name:   "a success breaks the streak",
			policy: Policy{TripAfter: 2},
			calls:  []bool{false, true, false, true},
			want:   StateClosed,
		},
		{
			name:   "failure ratio opens it once enough calls were seen",
			policy: Policy{TripAfter: 100, TripRatio: 0.5, MinCalls: 4},
			calls:  []bool{false, true, false, false},
			want:   StateOpen,
		},
		{
			name:   "ratio is not applied below the minimum",
			policy: Policy{TripAfter: 100, TripRatio: 0.5, MinCalls: 10},
			calls:  []bool{false, true, false, false},
			want:   StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("gateway", tt.policy)
			for _, healthy := range tt.calls {
				_ = call(b, healthy)
			}
			assert.Equal(t, tt.want, b.State())
		})
	}
}

func TestBreakerStats(t *testing.T) {
	b := New("gateway", Policy{})

	require.NoError(t, call(b, true))
	assert.Equal(t, Stats{Calls: 1, Successes: 1, ConsecutiveSuccesses: 1}, b.Stats())

	assert.ErrorIs(t, call(b, false), errDown)
	assert.Equal(t, Stats{Calls: 2, Successes: 1, Failures: 1, ConsecutiveFailures: 1}, b.Stats())
}

func TestOpenBreakerRejectsWithoutCalling(t *testing.T) {
	b := New("gateway", Policy{TripAfter: 2})
	_ = call(b, false)
	_ = call(b, false)
	require.Equal(t, StateOpen, b.State())

	called := false
	err := b.Guard(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestCooldownThenRecovery(t *testing.T) {
	clock := newFakeClock()
	b := New("gateway", Policy{Trials: 2, TripAfter: 2, Cooldown: 30 * time.Second, Clock: clock.Now})

	_ = call(b, false)
	_ = call(b, false)
	require.Equal(t, StateOpen, b.State())

	clock.Advance(31 * time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, call(b, true))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, call(b, true))
	assert.Equal(t, StateClosed, b.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	clock := newFakeClock()
	b := New("gateway", Policy{TripAfter: 1, Cooldown: 10 * time.Second, Clock: clock.Now})

	_ = call(b, false)
	clock.Advance(11 * time.Second)
	require.Equal(t, StateHalfOpen, b.State())

	_ = call(b, false)
	assert.Equal(t, StateOpen, b.State())
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	clock := newFakeClock()
	b := New("gateway", Policy{Trials: 1, TripAfter: 1, Cooldown: 10 * time.Second, Clock: clock.Now})

	_ = call(b, false)
	clock.Advance(11 * time.Second)

	var second error
	err := b.Guard(func() error {
		// a second caller while the probe is in flight is turned away
		second = call(b, true)
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, second, ErrProbeLimit)
}

func TestIgnoredErrorsDoNotTrip(t *testing.T) {
	errBadRequest := errors.New("bad request")
	b := New("gateway", Policy{
		TripAfter: 1,
		Ignore:    func(err error) bool { return errors.Is(err, errBadRequest) },
	})

	err := b.Guard(func() error { return errBadRequest })
	assert.ErrorIs(t, err, errBadRequest)
	assert.Equal(t, StateClosed, b.State())
	assert.Zero(t, b.Stats().Failures)

	_ = call(b, false)
	assert.Equal(t, StateOpen, b.State())
}

func TestWindowResetsStats(t *testing.T) {
	clock := newFakeClock()
	b := New("gateway", Policy{Window: time.Minute, Clock: clock.Now})

	_ = call(b, false)
	require.Equal(t, uint32(1), b.Stats().Failures)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, Stats{}, b.Stats())
}

func TestDoReturnsValue(t *testing.T) {
	b := New("gateway", Policy{})

	got, err := Do(b, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	_, err = Do(b, func() (int, error) { return 0, errDown })
	assert.ErrorIs(t, err, errDown)
}

func TestTransitionsAreReported(t *testing.T) {
	clock := newFakeClock()
	var seen []string

	b := New("gateway", Policy{
		Trials:    1,
		TripAfter: 2,
		Cooldown:  10 * time.Second,
		Clock:     clock.Now,
		OnTransition: func(name string, from, to State) {
			seen = append(seen, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = call(b, false)
	_ = call(b, false)
	clock.Advance(11 * time.Second)
	require.NoError(t, call(b, true))

	assert.Equal(t, []string{
		"gateway:closed->open",
		"gateway:open->half-open",
		"gateway:half-open->closed",
	}, seen)
}

func TestSnapshot(t *testing.T) {
	clock := newFakeClock()
	b := New("upstream", Policy{TripAfter: 1, Cooldown: time.Minute, Clock: clock.Now})
	_ = call(b, false)

	snap := b.Snapshot()
	assert.Equal(t, "upstream", snap.Name)
	assert.Equal(t, "open", snap.State)
	assert.Equal(t, clock.Now().Add(time.Minute), snap.Until)
}

func TestPanicCountsAsFailure(t *testing.T) {
	b := New("gateway", Policy{TripAfter: 1})

	assert.Panics(t, func() {
		_ = b.Guard(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}
