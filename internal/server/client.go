package server

import (
	"bytes"
	"sync"

	"github.com/google/uuid"

	"github.com/ent0n29/muxd/internal/session"
)

// Client represents one connected client: an optional attached session,
// control-mode flag, buffered stdout/stderr, an exit status and an exit
// request flag. It is the queue machinery's output sink.
type Client struct {
	ID string

	mu      sync.Mutex
	control bool
	session *session.Session
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	retval  int
	exited  bool
	status  string
	onFlush func()
}

func NewClient(control bool) *Client {
	return &Client{ID: uuid.NewString(), control: control}
}

// SetOnFlush registers the transport callback scheduled whenever buffered
// output or the exit flag changes. It is invoked without the client lock
// held, so it may drain the buffers.
func (c *Client) SetOnFlush(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFlush = fn
}

// Attach binds the client to a session; nil detaches.
func (c *Client) Attach(s *session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Session returns the attached session, nil when detached.
func (c *Client) Session() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) IsControl() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.control
}

func (c *Client) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

func (c *Client) PushStdout(s string) {
	c.mu.Lock()
	c.stdout.WriteString(s)
	fn := c.onFlush
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) PushStderr(s string) {
	c.mu.Lock()
	c.stderr.WriteString(s)
	fn := c.onFlush
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) SetRetval(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retval = code
}

func (c *Client) MarkExit() {
	c.mu.Lock()
	c.exited = true
	fn := c.onFlush
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Client) StatusMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = msg
}

func (c *Client) WriteToPane(line string) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return
	}
	s.Pane().WriteLine(line)
}

// TakeStdout drains and returns the stdout buffer.
func (c *Client) TakeStdout() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.stdout.String()
	c.stdout.Reset()
	return out
}

// TakeStderr drains and returns the stderr buffer.
func (c *Client) TakeStderr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.stderr.String()
	c.stderr.Reset()
	return out
}

// Retval returns the client's exit status.
func (c *Client) Retval() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retval
}

// Exited reports whether the client was marked for disconnect.
func (c *Client) Exited() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exited
}

// Status returns the last status-line message.
func (c *Client) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
