package commands

import (
	"strings"
	"testing"

	"github.com/ent0n29/muxd/internal/cmdq"
	"github.com/ent0n29/muxd/internal/hooks"
	"github.com/ent0n29/muxd/internal/notify"
	"github.com/ent0n29/muxd/internal/server"
	"github.com/ent0n29/muxd/internal/session"
)

func newRuntime() *server.Runtime {
	sessions := session.NewManager()
	globalHooks := hooks.NewRegistry()
	bus := notify.NewBus()
	rt := server.NewRuntime(sessions, globalHooks, bus)
	rt.Table = NewTable(Deps{
		Sessions: sessions,
		Waits:    rt.Waits,
		Hooks:    globalHooks,
		Bus:      bus,
	})
	rt.Preparer = StatePreparer(sessions)
	return rt
}

// run executes one line on a fresh queue for the client. Tests drive
// the queue directly instead of going through the event loop.
func run(t *testing.T, rt *server.Runtime, c *server.Client, line string) {
	t.Helper()
	var qc cmdq.Client
	if c != nil {
		qc = c
	}
	q := rt.NewQueue(qc)
	if err := rt.RunLine(q, line, "test", 1, 0); err != nil {
		t.Fatalf("RunLine(%q) error = %v", line, err)
	}
}

func TestNewSessionCreatesAndNotifies(t *testing.T) {
	rt := newRuntime()
	var events []string
	rt.Bus.Subscribe(func(e notify.Event) { events = append(events, e.Type) })

	run(t, rt, nil, "new-session -s dev")

	if _, err := rt.Sessions.Get("dev"); err != nil {
		t.Fatalf("Get(dev) error = %v, want session created", err)
	}
	found := false
	for _, e := range events {
		if e == notify.EventSessionCreated {
			found = true
		}
	}
	if !found {
		t.Fatalf("events = %v, want session-created", events)
	}
}

func TestNewSessionDuplicateFails(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "new-session -s dev")
	run(t, rt, c, "new-session -s dev")

	if !strings.Contains(c.TakeStderr(), "already exists") {
		t.Fatalf("stderr missing duplicate error")
	}
	if c.Retval() != 1 {
		t.Fatalf("Retval() = %d, want 1", c.Retval())
	}
}

func TestKillSessionByTarget(t *testing.T) {
	rt := newRuntime()
	run(t, rt, nil, "new-session -s dev")
	run(t, rt, nil, "kill-session -t dev")

	if rt.Sessions.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after kill", rt.Sessions.Count())
	}
}

func TestKillSessionUnknownTargetFailsPreparation(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "kill-session -t nope")

	if !strings.Contains(c.TakeStderr(), "session not found: nope") {
		t.Fatalf("stderr missing preparation failure")
	}
}

func TestKillSessionWithoutTarget(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "kill-session")

	if !strings.Contains(c.TakeStderr(), "no target session") {
		t.Fatalf("stderr missing no-target error")
	}
}

func TestEchoWritesStdout(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "echo hello world")

	if got := c.TakeStdout(); got != "hello world\n" {
		t.Fatalf("stdout = %q, want %q", got, "hello world\n")
	}
}

func TestFailSetsRetval(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "fail something broke")

	if got := c.TakeStderr(); got != "something broke\n" {
		t.Fatalf("stderr = %q, want %q", got, "something broke\n")
	}
	if c.Retval() != 1 {
		t.Fatalf("Retval() = %d, want 1", c.Retval())
	}
}

func TestDetachClientMarksExitAtDrain(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "detach-client; echo bye")

	if !c.Exited() {
		t.Fatalf("Exited() = false, want exit marked after drain")
	}
	if got := c.TakeStdout(); got != "bye\n" {
		t.Fatalf("stdout = %q, want commands after detach-client to still run", got)
	}
}

func TestWaitForSignalBeforeWait(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "wait-for -S ready")

	q := rt.NewQueue(c)
	if err := rt.RunLine(q, "wait-for ready; echo woke", "test", 1, 0); err != nil {
		t.Fatalf("RunLine() error = %v", err)
	}
	if !q.Idle() {
		t.Fatalf("Idle() = false, want remembered wake to avoid suspension")
	}
	if got := c.TakeStdout(); got != "woke\n" {
		t.Fatalf("stdout = %q, want %q", got, "woke\n")
	}
}

func TestWaitForRequiresChannel(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "wait-for")

	if !strings.Contains(c.TakeStderr(), "channel name required") {
		t.Fatalf("stderr missing channel name error")
	}
}

func TestStopQueueSkipsRemainder(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "echo a; stop-queue; echo b")

	if got := c.TakeStdout(); got != "a\n" {
		t.Fatalf("stdout = %q, want only output before stop", got)
	}
}

func TestSetHookGlobalFiresBeforeCommand(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, `set-hook -g before-echo "echo H"`)
	run(t, rt, c, "echo hi")

	if got := c.TakeStdout(); got != "H\nhi\n" {
		t.Fatalf("stdout = %q, want hook output before command output", got)
	}
}

func TestSetHookSessionScope(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "new-session -s dev")
	run(t, rt, c, `set-hook -t dev before-display-message "echo H"`)

	run(t, rt, c, "display-message -t dev targeted")
	if got := c.TakeStdout(); got != "H\ntargeted\n" {
		t.Fatalf("stdout = %q, want session hook to fire for targeted command", got)
	}

	run(t, rt, c, "display-message plain")
	if got := c.TakeStdout(); got != "plain\n" {
		t.Fatalf("stdout = %q, want no hook without the session in scope", got)
	}
}

func TestSetHookUnset(t *testing.T) {
	rt := newRuntime()
	run(t, rt, nil, `set-hook -g before-echo "echo H"`)
	run(t, rt, nil, "set-hook -g -u before-echo")

	if rt.GlobalHooks.Find("before-echo") != nil {
		t.Fatalf("hook still bound after unset")
	}
}

func TestShowHooksListsBindings(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, `set-hook -g before-echo "echo H"`)
	run(t, rt, c, "show-hooks -g")

	if got := c.TakeStdout(); !strings.Contains(got, "before-echo -> echo H") {
		t.Fatalf("stdout = %q, want hook binding listed", got)
	}
}

func TestListSessions(t *testing.T) {
	rt := newRuntime()
	c := server.NewClient(false)
	run(t, rt, c, "new-session -s alpha")
	run(t, rt, c, "new-session -s beta")
	run(t, rt, c, "list-sessions")

	out := c.TakeStdout()
	if !strings.Contains(out, "alpha:") || !strings.Contains(out, "beta:") {
		t.Fatalf("stdout = %q, want both sessions listed", out)
	}
}
