// Package commands provides the server's built-in command table and the
// per-command state preparer that resolves target and source sessions.
package commands

import (
	"strings"

	"github.com/ent0n29/muxd/internal/cmdq"
	"github.com/ent0n29/muxd/internal/hooks"
	"github.com/ent0n29/muxd/internal/notify"
	"github.com/ent0n29/muxd/internal/parse"
	"github.com/ent0n29/muxd/internal/server"
	"github.com/ent0n29/muxd/internal/session"
)

// Deps are the collaborators command implementations act on.
type Deps struct {
	Sessions *session.Manager
	Waits    *server.WaitSet
	Hooks    *hooks.Registry
	Bus      *notify.Bus
}

// NewTable builds the command table.
func NewTable(d Deps) cmdq.Table {
	t := cmdq.Table{}

	add := func(name string, exec func(*cmdq.Command, *cmdq.Queue) cmdq.Disposition) {
		t[name] = &cmdq.Entry{Name: name, Exec: exec}
	}

	add("echo", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		q.Print("%s", strings.Join(cmd.Args, " "))
		return cmdq.Normal
	})

	add("display-message", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		q.Print("%s", strings.Join(nonFlagArgs(cmd.Args), " "))
		return cmdq.Normal
	})

	add("fail", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		msg := strings.Join(cmd.Args, " ")
		if msg == "" {
			msg = "command failed"
		}
		q.Error("%s", msg)
		return cmdq.Error
	})

	add("stop-queue", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		return cmdq.Stop
	})

	add("detach-client", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		q.RequestClientExit()
		return cmdq.Normal
	})

	add("wait-for", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		args := cmd.Args
		signal := false
		if len(args) > 0 && args[0] == "-S" {
			signal = true
			args = args[1:]
		}
		if len(args) != 1 || args[0] == "" {
			q.Error("wait-for: channel name required")
			return cmdq.Error
		}
		if signal {
			d.Waits.Signal(args[0])
			return cmdq.Normal
		}
		if d.Waits.Wait(args[0], q) {
			return cmdq.Wait
		}
		return cmdq.Normal
	})

	add("new-session", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		name, _ := flagValue(cmd.Args, "-s")
		s, err := d.Sessions.Create(name)
		if err != nil {
			q.Error("%s", err)
			return cmdq.Error
		}
		if d.Bus != nil {
			d.Bus.Publish(notify.Event{
				Type: notify.EventSessionCreated,
				Data: map[string]any{"session": s.Name},
			})
		}
		return cmdq.Normal
	})

	add("kill-session", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		name := q.State().Target.Name
		if name == "" {
			q.Error("kill-session: no target session")
			return cmdq.Error
		}
		if err := d.Sessions.Kill(name); err != nil {
			q.Error("%s", err)
			return cmdq.Error
		}
		if d.Bus != nil {
			d.Bus.Publish(notify.Event{
				Type: notify.EventSessionClosed,
				Data: map[string]any{"session": name},
			})
		}
		return cmdq.Normal
	})

	add("list-sessions", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		for _, s := range d.Sessions.List() {
			q.Print("%s: created %s", s.Name, s.CreatedAt.Format("Mon Jan 2 15:04:05 2006"))
		}
		return cmdq.Normal
	})

	add("set-hook", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		args := cmd.Args
		global := false
		unset := false
		for len(args) > 0 && (args[0] == "-g" || args[0] == "-u") {
			switch args[0] {
			case "-g":
				global = true
			case "-u":
				unset = true
			}
			args = args[1:]
		}
		args = nonFlagPairsStripped(args)
		if len(args) == 0 {
			q.Error("set-hook: hook name required")
			return cmdq.Error
		}
		name := args[0]
		reg := hookScopeRegistry(d, q, global)
		if reg == nil {
			q.Error("set-hook: no target session")
			return cmdq.Error
		}
		if unset {
			reg.Unset(name)
			return cmdq.Normal
		}
		body := strings.Join(args[1:], " ")
		if body == "" {
			q.Error("set-hook: command required")
			return cmdq.Error
		}
		list, err := parse.Line(body, cmd.File, cmd.Line, t, 0)
		if err != nil {
			q.Error("%s", err)
			return cmdq.Error
		}
		reg.Set(name, list)
		list.Release()
		return cmdq.Normal
	})

	add("show-hooks", func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		global := len(cmd.Args) > 0 && cmd.Args[0] == "-g"
		reg := hookScopeRegistry(d, q, global)
		if reg == nil {
			q.Error("show-hooks: no target session")
			return cmdq.Error
		}
		for _, name := range reg.Names() {
			q.Print("%s -> %s", name, reg.Find(name).String())
		}
		return cmdq.Normal
	})

	return t
}

// hookScopeRegistry picks the registry set-hook and show-hooks operate
// on: the global one when asked for (or when no session is in scope),
// otherwise the target session's.
func hookScopeRegistry(d Deps, q *cmdq.Queue, global bool) *hooks.Registry {
	if global {
		return d.Hooks
	}
	if reg, ok := q.State().Target.Hooks.(*hooks.Registry); ok && reg != nil {
		return reg
	}
	return d.Hooks
}

// flagValue returns the value following a flag in args.
func flagValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// nonFlagArgs drops "-x value" pairs from args.
func nonFlagArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") && len(args[i]) == 2 {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}

// nonFlagPairsStripped drops "-t value" and "-s value" pairs, which the
// preparer has already consumed.
func nonFlagPairsStripped(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		if (args[i] == "-t" || args[i] == "-s") && i+1 < len(args) {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}
