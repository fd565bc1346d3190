package history

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ent0n29/muxd/internal/notify"
)

// Recorder feeds executed-command notifications into a Store without
// blocking the event loop. Records are handed off through a buffered
// channel and dropped when the writer cannot keep up.
type Recorder struct {
	store Store
	ch    chan Record
}

func NewRecorder(store Store, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 128
	}
	return &Recorder{store: store, ch: make(chan Record, buffer)}
}

// Run drains the channel into the store until the context is cancelled.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-r.ch:
			if err := r.store.Save(ctx, rec); err != nil {
				log.Printf("history: save failed: %v", err)
			}
		}
	}
}

// HandleEvent is a notification subscriber. It records command
// executions and ignores everything else.
func (r *Recorder) HandleEvent(ev notify.Event) {
	if ev.Type != notify.EventCommandExecuted {
		return
	}
	rec := Record{
		Command:     asString(ev.Data["command"]),
		Disposition: asString(ev.Data["disposition"]),
		ExecutedAt:  time.Now().UTC(),
	}
	if n, ok := ev.Data["number"].(uint); ok {
		rec.Number = uint64(n)
	}
	select {
	case r.ch <- rec:
	default:
		// Full buffer: drop rather than stall command dispatch.
	}
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
