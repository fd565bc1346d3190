package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a capped in-process journal for local/dev use.
type InMemoryStore struct {
	mu      sync.RWMutex
	cap     int
	records []Record
}

func NewInMemoryStore(cap int) *InMemoryStore {
	if cap <= 0 {
		cap = 1000
	}
	return &InMemoryStore{cap: cap}
}

func (s *InMemoryStore) Save(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ExecutedAt.IsZero() {
		record.ExecutedAt = time.Now().UTC()
	}
	s.records = append(s.records, record)
	if len(s.records) > s.cap {
		s.records = s.records[len(s.records)-s.cap:]
	}
	return nil
}

func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.records) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]Record, 0, limit)
	for i := len(s.records) - limit; i < len(s.records); i++ {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
