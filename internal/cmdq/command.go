package cmdq

import "strings"

// Disposition is the four-valued result of executing a command.
type Disposition int

const (
	// Normal means the command finished and the queue should advance.
	Normal Disposition = iota
	// Wait means the command is asynchronous; the queue suspends until
	// something calls Continue again.
	Wait
	// Stop drains the whole queue without executing pending commands.
	Stop
	// Error aborts the rest of the command's list.
	Error
)

func (d Disposition) String() string {
	switch d {
	case Normal:
		return "normal"
	case Wait:
		return "wait"
	case Stop:
		return "stop"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Flags is a per-command bit set.
type Flags int

// FlagControl marks a command submitted by a control-mode client; it is
// reported in the flags field of guard lines.
const FlagControl Flags = 1 << 0

// Entry describes one command implementation in the server's table.
type Entry struct {
	Name string
	Exec func(cmd *Command, q *Queue) Disposition
}

// Command is a single parsed directive: an entry plus its arguments and
// the source location it was parsed from.
type Command struct {
	Entry *Entry
	Args  []string
	File  string
	Line  int
	Flags Flags
}

func (c *Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Entry.Name)
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t;\"'") {
			a = "\"" + strings.ReplaceAll(a, "\"", "\\\"") + "\""
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Table maps command names to their entries.
type Table map[string]*Entry

func (t Table) Get(name string) *Entry {
	return t[name]
}
