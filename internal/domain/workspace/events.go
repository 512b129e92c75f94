package workspace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// EventKind names a workspace mutation
type EventKind string

const (
	EventSessionOpened       EventKind = "session_opened"
	EventSessionClosed       EventKind = "session_closed"
	EventActiveChanged       EventKind = "active_changed"
	EventContentUpdated      EventKind = "content_updated"
	EventPanelToggled        EventKind = "panel_toggled"
	EventThemeChanged        EventKind = "theme_changed"
	EventMessageAppended     EventKind = "message_appended"
	EventConversationCleared EventKind = "conversation_cleared"
)

// Event describes one applied mutation. Only the fields relevant to Kind are set.
type Event struct {
	Seq       uint64         `json:"seq"`
	Kind      EventKind      `json:"kind"`
	SessionID string         `json:"session_id,omitempty"`
	ActiveID  *string        `json:"active_id,omitempty"`
	Panel     types.Panel    `json:"panel,omitempty"`
	Open      bool           `json:"open,omitempty"`
	Theme     types.Theme    `json:"theme,omitempty"`
	Message   *types.Message `json:"message,omitempty"`
}

// Subscriber receives events in mutation order
type Subscriber func(Event)

// eventBus delivers events outside the store lock, in sequence order.
// Whichever goroutine finds the bus idle drains the queue; a subscriber that
// mutates the store from inside its callback only enqueues, so nested
// mutations never deadlock and are still delivered after the current event.
type eventBus struct {
	mu          sync.Mutex
	seq         uint64
	nextID      uint64
	subscribers map[uint64]Subscriber
	order       []uint64
	pending     []Event
	dispatching bool
	logger      *zap.Logger
}

func newEventBus() *eventBus {
	return &eventBus{subscribers: make(map[uint64]Subscriber), logger: zap.NewNop()}
}

func (b *eventBus) subscribe(fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	subID := b.nextID
	b.subscribers[subID] = fn
	b.order = append(b.order, subID)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, subID)
			for i, existing := range b.order {
				if existing == subID {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// enqueue stamps events with sequence numbers. Callers hold the store lock,
// which makes sequence order equal to mutation order.
func (b *eventBus) enqueue(events ...Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ev := range events {
		b.seq++
		ev.Seq = b.seq
		b.pending = append(b.pending, ev)
	}
}

// dispatch drains pending events unless another caller is already doing so.
func (b *eventBus) dispatch() {
	b.mu.Lock()
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	b.mu.Unlock()

	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.dispatching = false
			b.mu.Unlock()
			return
		}
		ev := b.pending[0]
		b.pending = b.pending[1:]
		subs := make([]Subscriber, 0, len(b.order))
		for _, subID := range b.order {
			subs = append(subs, b.subscribers[subID])
		}
		b.mu.Unlock()

		for _, fn := range subs {
			b.deliver(fn, ev)
		}
	}
}

// deliver contains a subscriber panic; the mutation that raised ev has
// already been applied and the remaining subscribers still get it
func (b *eventBus) deliver(fn Subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("workspace subscriber panicked",
				zap.Uint64("seq", ev.Seq),
				zap.String("kind", string(ev.Kind)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	fn(ev)
}

// current returns the sequence number of the last enqueued event
func (b *eventBus) current() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

func (b *eventBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
