package cmdq

import "github.com/ent0n29/muxd/internal/notify"

// HookSet resolves a hook name, such as "before-new-session", to the
// command list bound to it. A nil result means no hook is set.
type HookSet interface {
	Find(name string) *List
}

// Scope is one resolved session target of a command.
type Scope struct {
	Name  string
	Hooks HookSet
}

// State is the per-command preparation result: the resolved target and
// source sessions, used to pick the hook scope and consulted by command
// implementations.
type State struct {
	Target Scope
	Source Scope
}

// Preparer resolves a command's target and source before execution. It is
// called twice per command: once before the before-hooks fire and once
// after, since hooks may move the target around.
type Preparer func(cmd *Command, q *Queue) (State, error)

func (q *Queue) prepare(cmd *Command) (State, error) {
	if q.preparer == nil {
		return State{}, nil
	}
	return q.preparer(cmd, q)
}

// hookScope picks the hook lookup scope for the current command: the
// target session if resolved, else the source session, else global.
func (q *Queue) hookScope() HookSet {
	if q.state.Target.Hooks != nil {
		return q.state.Target.Hooks
	}
	if q.state.Source.Hooks != nil {
		return q.state.Source.Hooks
	}
	return q.globalHooks
}

// runHooks fires the "<prefix>-<name>" hook list for the current command,
// if one is bound in scope, and reports whether it did. The hook body runs
// on a child queue for the same client; when the child drains it releases
// the reference taken here and re-drives this queue, which resumes at the
// point encoded by the during and executed flags.
func (q *Queue) runHooks(scope HookSet, prefix string) bool {
	if scope == nil || q.cmd == nil {
		q.hooksRan = false
		return false
	}
	name := prefix + "-" + q.cmd.Entry.Name
	list := scope.Find(name)
	if list == nil {
		q.hooksRan = false
		return false
	}

	child := New(q.client,
		WithGlobalHooks(q.globalHooks),
		WithPreparer(q.preparer),
		WithBus(q.bus),
		WithCauses(q.causes),
		WithClock(q.now),
	)
	child.hooksRan = true
	child.emptyFn = func(c *Queue) {
		if c.clientExit >= 0 {
			q.clientExit = c.clientExit
		}
		if !q.Release() {
			q.hooksRan = true
			q.Continue()
		}
		c.Release()
	}

	q.Retain()
	// The child can drain synchronously, re-entering this queue from its
	// empty callback, so the resumption point must be set before Run.
	q.during = true
	if q.bus != nil {
		q.bus.Publish(notify.Event{
			Type: notify.EventHookFired,
			Data: map[string]any{"hook": name},
		})
	}
	child.Run(list)
	return true
}
