package commands

import (
	"github.com/ent0n29/muxd/internal/cmdq"
	"github.com/ent0n29/muxd/internal/server"
	"github.com/ent0n29/muxd/internal/session"
)

// StatePreparer resolves the target (-t) and source (-s) sessions of a
// command into the scopes the queue consults when it looks for hooks.
// A command with no -t falls back to the client's attached session; an
// argument naming a session that does not exist fails the preparation,
// which fails the command before it executes.
func StatePreparer(sessions *session.Manager) cmdq.Preparer {
	resolve := func(name string) (cmdq.Scope, error) {
		s, err := sessions.Get(name)
		if err != nil {
			return cmdq.Scope{}, err
		}
		return cmdq.Scope{Name: s.Name, Hooks: s.Hooks}, nil
	}

	return func(cmd *cmdq.Command, q *cmdq.Queue) (cmdq.State, error) {
		var st cmdq.State
		var err error

		if name, ok := flagValue(cmd.Args, "-t"); ok {
			if st.Target, err = resolve(name); err != nil {
				return cmdq.State{}, err
			}
		} else if c, ok := q.Client().(*server.Client); ok && c != nil {
			if s := c.Session(); s != nil {
				st.Target = cmdq.Scope{Name: s.Name, Hooks: s.Hooks}
			}
		}

		if name, ok := flagValue(cmd.Args, "-s"); ok && cmd.Entry.Name != "new-session" {
			if st.Source, err = resolve(name); err != nil {
				return cmdq.State{}, err
			}
		}
		return st, nil
	}
}
