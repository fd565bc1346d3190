package session

import (
	"sync"
	"time"

	"github.com/ent0n29/muxd/internal/hooks"
)

// Session is a named workspace clients attach to. Each session carries
// its own hook registry and an active pane that informational command
// output is routed into.
type Session struct {
	ID        string    `json:"session_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Hooks *hooks.Registry `json:"-"`

	pane *Pane
}

// Pane returns the session's active pane.
func (s *Session) Pane() *Pane {
	return s.pane
}

// Pane buffers output lines for display. Informational command output
// switches the pane into view mode, mirroring how a scrollback viewer
// takes over the pane until dismissed.
type Pane struct {
	mu     sync.Mutex
	inView bool
	lines  []string
}

// WriteLine appends a line, entering view mode first if needed.
func (p *Pane) WriteLine(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.inView {
		p.inView = true
		p.lines = nil
	}
	p.lines = append(p.lines, line)
}

// InView reports whether the pane is showing buffered output.
func (p *Pane) InView() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inView
}

// Lines returns a copy of the buffered output.
func (p *Pane) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// Reset leaves view mode and drops buffered output.
func (p *Pane) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inView = false
	p.lines = nil
}
