package server

import "context"

// Loop is the server's single event loop. All queue driving happens on
// it, which is what makes the scheduler's single-threaded cooperative
// model hold without locks inside the queue machinery.
type Loop struct {
	jobs chan func()
}

func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{jobs: make(chan func(), buffer)}
}

// Run consumes jobs until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.jobs:
			fn()
		}
	}
}

// Post schedules a job. It never blocks the caller: if the job channel is
// full the send completes from a goroutine, so jobs posted from the loop
// itself (a command re-driving a waiting queue) cannot deadlock.
func (l *Loop) Post(fn func()) {
	select {
	case l.jobs <- fn:
	default:
		go func() { l.jobs <- fn }()
	}
}

// Do runs a job on the loop and waits for it to finish. It must not be
// called from the loop itself.
func (l *Loop) Do(fn func()) {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}
