package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ent0n29/muxd/internal/hooks"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExists   = errors.New("session already exists")
)

// Manager owns the server's session table.
type Manager struct {
	mu       sync.RWMutex
	byName   map[string]*Session
	nextAuto int
}

func NewManager() *Manager {
	return &Manager{byName: make(map[string]*Session)}
}

// Create adds a session. An empty name picks the next free numeric name,
// the way unnamed sessions are numbered.
func (m *Manager) Create(name string) (*Session, error) {
	name = strings.TrimSpace(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		for {
			name = fmt.Sprintf("%d", m.nextAuto)
			m.nextAuto++
			if _, ok := m.byName[name]; !ok {
				break
			}
		}
	} else if _, ok := m.byName[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Hooks:     hooks.NewRegistry(),
		pane:      &Pane{},
	}
	m.byName[name] = s
	return s, nil
}

// Kill removes a session by name.
func (m *Manager) Kill(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.byName, name)
	return nil
}

// Get returns a session by name.
func (m *Manager) Get(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s, nil
}

// List returns all sessions sorted by name.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.byName))
	for _, s := range m.byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byName)
}
