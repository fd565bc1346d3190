package cmdq

import (
	"time"

	"github.com/ent0n29/muxd/internal/notify"
)

// Queue schedules command lists for one client (or for the server itself
// when client is nil, as during startup configuration). Lists are walked
// strictly in append order; execution suspends on Wait dispositions and on
// hook expansion and resumes through Continue.
//
// A queue is reference counted because hook expansion lets it outlive the
// scope that created it: each running hook holds one reference on its
// parent, released when the hook's child queue drains.
//
// All queue methods must be called from the server's event loop.
type Queue struct {
	client Client

	items []*item
	item  *item
	pos   int
	cmd   *Command

	state    State
	time     int64
	number   uint
	during   bool
	executed bool
	hooksRan bool

	emptyFn    func(*Queue)
	clientExit int

	references int
	dead       bool

	globalHooks HookSet
	preparer    Preparer
	bus         *notify.Bus
	causes      CauseLog
	now         func() time.Time
}

// Option configures a queue at construction.
type Option func(*Queue)

// WithGlobalHooks sets the hook scope used when a command resolves
// neither a target nor a source session.
func WithGlobalHooks(h HookSet) Option {
	return func(q *Queue) { q.globalHooks = h }
}

// WithPreparer sets the per-command state preparer.
func WithPreparer(p Preparer) Option {
	return func(q *Queue) { q.preparer = p }
}

// WithBus sets the notification bus bracketed around driver invocations.
func WithBus(b *notify.Bus) Option {
	return func(q *Queue) { q.bus = b }
}

// WithCauses sets the accumulator for errors raised without a client.
func WithCauses(c CauseLog) Option {
	return func(q *Queue) { q.causes = c }
}

// WithClock overrides the wall clock stamped on each command.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// New creates an idle queue holding one reference for the caller.
func New(client Client, opts ...Option) *Queue {
	q := &Queue{
		client:     client,
		clientExit: -1,
		references: 1,
		now:        time.Now,
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Retain adds a reference.
func (q *Queue) Retain() {
	q.references++
}

// Release drops one reference and reports whether the queue is gone:
// true when this was the final reference (pending items are flushed and
// the queue must not be touched again), otherwise the dead flag.
func (q *Queue) Release() bool {
	q.references--
	if q.references > 0 {
		return q.dead
	}
	q.dead = true
	q.Flush()
	return true
}

// Append adds a command list to the tail of the queue without starting
// execution. The list gains one reference, released when the queue
// finishes or flushes the item.
func (q *Queue) Append(list *List) {
	list.Retain()
	q.items = append(q.items, &item{list: list})
}

// Flush drops every pending item, including a partially walked one, and
// leaves the queue idle. It does not abort a command currently executing.
func (q *Queue) Flush() {
	for _, it := range q.items {
		it.list.Release()
	}
	q.items = nil
	q.item = nil
	q.cmd = nil
}

// Run appends the list and, if the queue is idle, starts the driver.
func (q *Queue) Run(list *List) {
	q.Append(list)
	if q.item == nil {
		q.cmd = nil
		q.Continue()
	}
}

// OnEmpty sets the continuation invoked each time the queue drains. The
// callback may release the queue; callers must not touch it afterwards.
func (q *Queue) OnEmpty(fn func(*Queue)) {
	q.emptyFn = fn
}

// Client returns the client this queue was built for, nil for
// configuration-time queues.
func (q *Queue) Client() Client {
	return q.client
}

// State returns the preparation result for the command being executed.
func (q *Queue) State() State {
	return q.state
}

// Number returns the queue's monotonic command counter.
func (q *Queue) Number() uint {
	return q.number
}

// Idle reports whether the queue is between items.
func (q *Queue) Idle() bool {
	return q.item == nil
}

// RequestClientExit asks for the client to be marked for disconnect when
// the queue drains. Hook queues propagate the request to their parent.
func (q *Queue) RequestClientExit() {
	q.clientExit = 1
}
