package server

import (
	"fmt"
	"sync"
)

// Causes accumulates configuration errors raised while no client is
// present, each tagged with the source location of the failing command.
type Causes struct {
	mu      sync.Mutex
	entries []string
}

func NewCauses() *Causes {
	return &Causes{}
}

func (c *Causes) Add(file string, line int, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, fmt.Sprintf("%s:%d: %s", file, line, msg))
}

// List returns a copy of the accumulated causes.
func (c *Causes) List() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}
