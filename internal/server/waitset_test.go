package server

import (
	"context"
	"testing"
	"time"

	"github.com/ent0n29/muxd/internal/cmdq"
)

func TestWaitThenSignalResumesQueue(t *testing.T) {
	l := NewLoop(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)
	ws := NewWaitSet(l)

	var log []string
	resumed := make(chan struct{})

	wait := &cmdq.Entry{Name: "wait-for", Exec: func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		log = append(log, "wait")
		if ws.Wait("lock", q) {
			return cmdq.Wait
		}
		return cmdq.Normal
	}}
	after := &cmdq.Entry{Name: "after", Exec: func(cmd *cmdq.Command, q *cmdq.Queue) cmdq.Disposition {
		log = append(log, "after")
		close(resumed)
		return cmdq.Normal
	}}

	q := cmdq.New(nil)
	l.Do(func() {
		q.Run(cmdq.NewList(
			&cmdq.Command{Entry: wait},
			&cmdq.Command{Entry: after},
		))
	})

	if n := ws.Signal("lock"); n != 1 {
		t.Fatalf("Signal() = %d, want 1 waiter woken", n)
	}

	select {
	case <-resumed:
	case <-time.After(2 * time.Second):
		t.Fatalf("queue did not resume after signal")
	}
	if len(log) != 2 || log[0] != "wait" || log[1] != "after" {
		t.Fatalf("execution order = %v, want [wait after]", log)
	}
}

func TestSignalWithoutWaiterIsRemembered(t *testing.T) {
	l := NewLoop(4)
	ws := NewWaitSet(l)

	if n := ws.Signal("ready"); n != 0 {
		t.Fatalf("Signal() = %d, want 0 with no waiters", n)
	}

	q := cmdq.New(nil)
	if ws.Wait("ready", q) {
		t.Fatalf("Wait() = true, want remembered wake consumed without suspending")
	}
	// The wake is consumed: the next wait suspends.
	if !ws.Wait("ready", q) {
		t.Fatalf("second Wait() = false, want suspend")
	}
}

func TestCausesAccumulateWithProvenance(t *testing.T) {
	c := NewCauses()
	c.Add("muxd.conf", 3, "unknown command: frobnicate")
	c.Add("muxd.conf", 9, "bad option")

	got := c.List()
	if len(got) != 2 {
		t.Fatalf("List() = %v, want 2 entries", got)
	}
	if got[0] != "muxd.conf:3: unknown command: frobnicate" {
		t.Fatalf("first cause = %q, want file:line prefix", got[0])
	}
}
