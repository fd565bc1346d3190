// Package hooks holds user-defined command lists fired around command
// execution. A hook name is "<prefix>-<command>", for example
// "before-new-session". The server has one global registry and one per
// session.
package hooks

import (
	"sort"
	"sync"

	"github.com/ent0n29/muxd/internal/cmdq"
)

type Registry struct {
	mu sync.RWMutex
	m  map[string]*cmdq.List
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]*cmdq.List)}
}

// Set binds a command list to a hook name, retaining the list and
// releasing any list it replaces.
func (r *Registry) Set(name string, list *cmdq.List) {
	list.Retain()
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.m[name]; ok {
		old.Release()
	}
	r.m[name] = list
}

// Unset removes a hook binding, releasing its list.
func (r *Registry) Unset(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.m[name]; ok {
		old.Release()
		delete(r.m, name)
	}
}

// Find returns the list bound to name, or nil.
func (r *Registry) Find(name string) *cmdq.List {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m[name]
}

// Names returns all bound hook names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
