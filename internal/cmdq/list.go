package cmdq

import "strings"

// List is an immutable ordered sequence of commands shared across queues.
// It carries a reference count: the creator holds one reference, each
// queue item holds one more, and hook registries hold one per binding.
// Reference counts are manipulated only on the server's event loop.
type List struct {
	refs int
	cmds []*Command
}

func NewList(cmds ...*Command) *List {
	return &List{refs: 1, cmds: cmds}
}

func (l *List) Retain() {
	l.refs++
}

func (l *List) Release() {
	l.refs--
}

// Refs reports the current reference count.
func (l *List) Refs() int {
	return l.refs
}

// Commands returns the underlying command slice. Callers must not modify it.
func (l *List) Commands() []*Command {
	return l.cmds
}

func (l *List) String() string {
	parts := make([]string, 0, len(l.cmds))
	for _, c := range l.cmds {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, "; ")
}

// item wraps one list reference inside a queue's pending FIFO.
type item struct {
	list *List
}

func (it *item) cmdAt(i int) *Command {
	if i < 0 || i >= len(it.list.cmds) {
		return nil
	}
	return it.list.cmds[i]
}
