package server

import (
	"sync"

	"github.com/ent0n29/muxd/internal/cmdq"
)

type waitChannel struct {
	woken   bool
	waiters []*cmdq.Queue
}

// WaitSet backs the wait-for command: named channels queues can suspend
// on until another command signals them. A signal with no waiters is
// remembered, so the next wait returns immediately instead of suspending.
type WaitSet struct {
	mu       sync.Mutex
	loop     *Loop
	channels map[string]*waitChannel
}

func NewWaitSet(loop *Loop) *WaitSet {
	return &WaitSet{loop: loop, channels: make(map[string]*waitChannel)}
}

// Wait registers q on the named channel and reports whether the caller
// must suspend. A pending wake is consumed instead of suspending.
func (w *WaitSet) Wait(name string, q *cmdq.Queue) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := w.channels[name]
	if ch == nil {
		ch = &waitChannel{}
		w.channels[name] = ch
	}
	if ch.woken {
		ch.woken = false
		if len(ch.waiters) == 0 {
			delete(w.channels, name)
		}
		return false
	}
	ch.waiters = append(ch.waiters, q)
	return true
}

// Signal wakes every queue waiting on the named channel by posting a
// Continue for each onto the event loop, and returns how many it woke.
// With no waiters the wake is remembered for the next Wait.
func (w *WaitSet) Signal(name string) int {
	w.mu.Lock()
	ch := w.channels[name]
	if ch == nil || len(ch.waiters) == 0 {
		if ch == nil {
			ch = &waitChannel{}
			w.channels[name] = ch
		}
		ch.woken = true
		w.mu.Unlock()
		return 0
	}
	waiters := ch.waiters
	ch.waiters = nil
	delete(w.channels, name)
	w.mu.Unlock()

	for _, q := range waiters {
		q := q
		w.loop.Post(func() { q.Continue() })
	}
	return len(waiters)
}
