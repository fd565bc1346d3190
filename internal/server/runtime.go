package server

import (
	"github.com/ent0n29/muxd/internal/cmdq"
	"github.com/ent0n29/muxd/internal/hooks"
	"github.com/ent0n29/muxd/internal/notify"
	"github.com/ent0n29/muxd/internal/parse"
	"github.com/ent0n29/muxd/internal/session"
)

// Runtime bundles the pieces every command submission needs: the event
// loop, the session table, the global hook registry, the wait channels,
// the notification bus, the configuration cause log, and the command
// table. The table and preparer are wired in after construction, once the
// command implementations exist.
type Runtime struct {
	Loop        *Loop
	Waits       *WaitSet
	Sessions    *session.Manager
	GlobalHooks *hooks.Registry
	Causes      *Causes
	Bus         *notify.Bus

	Table    cmdq.Table
	Preparer cmdq.Preparer
}

func NewRuntime(sessions *session.Manager, globalHooks *hooks.Registry, bus *notify.Bus) *Runtime {
	loop := NewLoop(256)
	return &Runtime{
		Loop:        loop,
		Waits:       NewWaitSet(loop),
		Sessions:    sessions,
		GlobalHooks: globalHooks,
		Causes:      NewCauses(),
		Bus:         bus,
	}
}

// NewQueue builds a command queue for the client (nil for config-time
// execution) wired to the runtime's collaborators.
func (rt *Runtime) NewQueue(c cmdq.Client) *cmdq.Queue {
	return cmdq.New(c,
		cmdq.WithGlobalHooks(rt.GlobalHooks),
		cmdq.WithPreparer(rt.Preparer),
		cmdq.WithBus(rt.Bus),
		cmdq.WithCauses(rt.Causes),
	)
}

// RunLine parses one line of command text and runs it on the queue. The
// parsed list's creator reference is dropped once the queue holds its
// own, so reference counts balance when the queue finishes the item.
// Must be called on the event loop.
func (rt *Runtime) RunLine(q *cmdq.Queue, line, file string, lineno int, flags cmdq.Flags) error {
	list, err := parse.Line(line, file, lineno, rt.Table, flags)
	if err != nil {
		return err
	}
	q.Run(list)
	list.Release()
	return nil
}
