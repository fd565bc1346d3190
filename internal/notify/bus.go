package notify

import "sync"

// Event types published on the bus.
const (
	EventCommandExecuted = "command-executed"
	EventHookFired       = "hook-fired"
	EventQueueDrained    = "queue-drained"
	EventSessionCreated  = "session-created"
	EventSessionClosed   = "session-closed"
)

// Event is a single server notification.
type Event struct {
	Type string
	Data map[string]any
}

// Bus fans events out to subscribers. Delivery can be suspended with
// Disable/Enable brackets; events published while suspended are held and
// delivered as one batch when the outermost bracket closes. Brackets are
// counted, so nested Disable calls do not double-toggle.
type Bus struct {
	mu       sync.Mutex
	depth    int
	pending  []Event
	subs     []func(Event)
	flushObs func(int)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a delivery callback. Subscribers are expected to be
// registered during wiring, before events flow.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// SetFlushObserver registers a callback invoked with the size of each
// batch released by the outermost Enable.
func (b *Bus) SetFlushObserver(fn func(int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushObs = fn
}

// Disable opens a suspension bracket.
func (b *Bus) Disable() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.depth++
}

// Enable closes one suspension bracket. Closing the outermost bracket
// delivers everything published since the first Disable.
func (b *Bus) Enable() {
	b.mu.Lock()
	if b.depth > 0 {
		b.depth--
	}
	if b.depth > 0 {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = nil
	subs := b.subs
	flushObs := b.flushObs
	b.mu.Unlock()

	if flushObs != nil {
		flushObs(len(batch))
	}
	for _, e := range batch {
		for _, fn := range subs {
			fn(e)
		}
	}
}

// Publish delivers an event, or holds it if delivery is suspended.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	if b.depth > 0 {
		b.pending = append(b.pending, e)
		b.mu.Unlock()
		return
	}
	subs := b.subs
	b.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
