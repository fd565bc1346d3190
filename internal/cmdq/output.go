package cmdq

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Client is the output sink and lifecycle surface a queue needs from the
// client that submitted its work.
type Client interface {
	// IsControl reports whether the client is in control mode.
	IsControl() bool
	// Attached reports whether the client has a session.
	Attached() bool
	// PushStdout appends raw bytes to the client's stdout buffer and
	// schedules a flush.
	PushStdout(s string)
	// PushStderr appends raw bytes to the client's stderr buffer and
	// schedules a flush.
	PushStderr(s string)
	// SetRetval sets the client's exit status.
	SetRetval(code int)
	// MarkExit marks the client for disconnect.
	MarkExit()
	// StatusMessage displays a message on the client's status line.
	StatusMessage(msg string)
	// WriteToPane appends a line to the client's active pane, switching
	// it into view mode first if needed.
	WriteToPane(line string)
}

// CauseLog accumulates configuration errors raised while no client is
// present, tagged with their source location.
type CauseLog interface {
	Add(file string, line int, msg string)
}

// Print emits informational output from the current command. With no
// client it is swallowed; a control or detached client gets it on stdout;
// an attached client sees it in the active pane's view mode.
func (q *Queue) Print(format string, args ...any) {
	c := q.client
	msg := fmt.Sprintf(format, args...)
	switch {
	case c == nil:
	case !c.Attached() || c.IsControl():
		c.PushStdout(msg + "\n")
	default:
		c.WriteToPane(msg)
	}
}

// Error emits diagnostic output from the current command. With no client
// it lands in the configuration cause log with file:line provenance; a
// control or detached client gets it on stderr and a non-zero retval; an
// attached client sees it on the status line, first letter capitalized.
func (q *Queue) Error(format string, args ...any) {
	c := q.client
	msg := fmt.Sprintf(format, args...)
	switch {
	case c == nil:
		if q.causes != nil && q.cmd != nil {
			q.causes.Add(q.cmd.File, q.cmd.Line, msg)
		}
	case !c.Attached() || c.IsControl():
		c.PushStderr(msg + "\n")
		c.SetRetval(1)
	default:
		c.StatusMessage(capitalize(msg))
	}
}

// Guard emits a control-mode framing line and reports whether it did.
// The format is fixed: "%<tag> <time> <number> <flags>\n".
func (q *Queue) Guard(tag string, flags int) bool {
	c := q.client
	if c == nil || !c.IsControl() {
		return false
	}
	c.PushStdout(fmt.Sprintf("%%%s %d %d %d\n", tag, q.time, q.number, flags))
	return true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
