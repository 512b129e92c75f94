package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrOpen is returned while the circuit is open
	ErrOpen = errors.New("circuit breaker is open")
	// ErrProbeLimit is returned while half-open and every trial slot is taken
	ErrProbeLimit = errors.New("circuit breaker probe limit reached")
)

// State is the position of the circuit
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Policy decides when a collaborator is considered down and how it is probed
type Policy struct {
	// Trials is how many calls are let through while half-open; that many
	// successes close the circuit again
	Trials uint32
	// Window is how long closed-state statistics accumulate before reset
	Window time.Duration
	// Cooldown is how long the circuit stays open before probing
	Cooldown time.Duration
	// TripAfter consecutive failures open the circuit
	TripAfter uint32
	// TripRatio of failures opens the circuit once MinCalls calls were seen
	// in the window. Zero disables the ratio rule.
	TripRatio float64
	MinCalls  uint32
	// Ignore marks errors that say nothing about the collaborator's health,
	// such as a 4xx answer. Ignored errors count as successes.
	Ignore func(err error) bool
	// OnTransition is called with the breaker lock held; it must not call back
	OnTransition func(name string, from, to State)
	// Clock is time.Now when nil
	Clock func() time.Time
}

// DefaultPolicy suits the assist and generation gateways: five straight
// failures, or 70% of at least twenty calls, open the circuit for 30s
func DefaultPolicy() Policy {
	return Policy{
		Trials:    3,
		Window:    time.Minute,
		Cooldown:  30 * time.Second,
		TripAfter: 5,
		TripRatio: 0.7,
		MinCalls:  20,
	}
}

// Stats are the outcomes recorded since the last state change or window reset
type Stats struct {
	Calls                uint32 `json:"calls"`
	Successes            uint32 `json:"successes"`
	Failures             uint32 `json:"failures"`
	ConsecutiveSuccesses uint32 `json:"consecutive_successes"`
	ConsecutiveFailures  uint32 `json:"consecutive_failures"`
}

// Snapshot is a point-in-time view of a breaker
type Snapshot struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Stats Stats  `json:"stats"`
	// Until is when the current window or cooldown ends; zero while half-open
	Until time.Time `json:"until,omitempty"`
}

// Breaker fails calls to an unhealthy collaborator fast
type Breaker struct {
	name   string
	policy Policy

	mu    sync.Mutex
	state State
	epoch uint64
	stats Stats
	until time.Time
}

// New creates a closed breaker. Zero policy fields take DefaultPolicy values.
func New(name string, policy Policy) *Breaker {
	def := DefaultPolicy()
	if policy.Trials == 0 {
		policy.Trials = def.Trials
	}
	if policy.Window == 0 {
		policy.Window = def.Window
	}
	if policy.Cooldown == 0 {
		policy.Cooldown = def.Cooldown
	}
	if policy.TripAfter == 0 {
		policy.TripAfter = def.TripAfter
	}
	if policy.Clock == nil {
		policy.Clock = time.Now
	}

	b := &Breaker{name: name, policy: policy}
	b.until = policy.Clock().Add(policy.Window)
	return b
}

// Name returns the collaborator name the breaker guards
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, applying any elapsed window or cooldown
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.policy.Clock())
	return b.state
}

// Stats returns a copy of the current statistics
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.policy.Clock())
	return b.stats
}

// Snapshot returns the state and statistics together
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.policy.Clock())
	return Snapshot{
		Name:  b.name,
		State: b.state.String(),
		Stats: b.stats,
		Until: b.until,
	}
}

// Guard runs fn unless the circuit rejects it and records the outcome.
// fn's error is returned unchanged; a panic in fn counts as a failure.
func (b *Breaker) Guard(fn func() error) error {
	epoch, err := b.admit()
	if err != nil {
		return err
	}

	ok := false
	defer func() {
		if !ok {
			b.record(epoch, false)
		}
	}()

	err = fn()
	ok = true
	b.record(epoch, err == nil || (b.policy.Ignore != nil && b.policy.Ignore(err)))
	return err
}

// Do is Guard for functions that produce a value
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var out T
	err := b.Guard(func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(b.policy.Clock())
	switch b.state {
	case StateOpen:
		return b.epoch, ErrOpen
	case StateHalfOpen:
		if b.stats.Calls >= b.policy.Trials {
			return b.epoch, ErrProbeLimit
		}
	}
	b.stats.Calls++
	return b.epoch, nil
}

func (b *Breaker) record(epoch uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.policy.Clock()
	b.advance(now)
	// the call started before the last state change
	if epoch != b.epoch {
		return
	}

	if success {
		b.stats.Successes++
		b.stats.ConsecutiveSuccesses++
		b.stats.ConsecutiveFailures = 0
		if b.state == StateHalfOpen && b.stats.ConsecutiveSuccesses >= b.policy.Trials {
			b.transition(StateClosed, now)
		}
		return
	}

	b.stats.Failures++
	b.stats.ConsecutiveFailures++
	b.stats.ConsecutiveSuccesses = 0
	if b.state == StateHalfOpen || b.tripped() {
		b.transition(StateOpen, now)
	}
}

func (b *Breaker) tripped() bool {
	if b.stats.ConsecutiveFailures >= b.policy.TripAfter {
		return true
	}
	if b.policy.TripRatio <= 0 || b.stats.Calls < b.policy.MinCalls {
		return false
	}
	return float64(b.stats.Failures)/float64(b.stats.Calls) > b.policy.TripRatio
}

// advance applies the time-based transitions: the closed window resets the
// statistics and an elapsed cooldown moves open to half-open
func (b *Breaker) advance(now time.Time) {
	switch b.state {
	case StateClosed:
		if now.After(b.until) {
			b.reset(now)
		}
	case StateOpen:
		if now.After(b.until) {
			b.transition(StateHalfOpen, now)
		}
	}
}

func (b *Breaker) transition(to State, now time.Time) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.reset(now)

	if b.policy.OnTransition != nil {
		b.policy.OnTransition(b.name, from, to)
	}
}

func (b *Breaker) reset(now time.Time) {
	b.epoch++
	b.stats = Stats{}

	switch b.state {
	case StateClosed:
		b.until = now.Add(b.policy.Window)
	case StateOpen:
		b.until = now.Add(b.policy.Cooldown)
	default:
		b.until = time.Time{}
	}
}
