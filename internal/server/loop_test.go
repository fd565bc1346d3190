package server

import (
	"context"
	"testing"
	"time"
)

func TestLoopRunsPostedJobsInOrder(t *testing.T) {
	l := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Do(func() {})

	if len(got) != 5 {
		t.Fatalf("jobs run = %d, want 5", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v, want posted order", got)
		}
	}
}

func TestLoopDoWaitsForResult(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var n int
	l.Do(func() { n = 42 })
	if n != 42 {
		t.Fatalf("n = %d, want job to have run before Do returns", n)
	}
}

func TestLoopPostFromLoopDoesNotDeadlock(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	done := make(chan struct{})
	l.Post(func() {
		// Re-posting from the loop must not block even with a full buffer.
		for i := 0; i < 10; i++ {
			l.Post(func() {})
		}
		l.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop deadlocked on nested posts")
	}
}
