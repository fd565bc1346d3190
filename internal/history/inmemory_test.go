package history

import (
	"context"
	"testing"
)

func TestInMemorySaveAndRecent(t *testing.T) {
	s := NewInMemoryStore(10)
	ctx := context.Background()

	for _, name := range []string{"echo a", "echo b", "echo c"} {
		if err := s.Save(ctx, Record{Command: name, Disposition: "normal"}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() = %d records, want 2", len(got))
	}
	if got[0].Command != "echo b" || got[1].Command != "echo c" {
		t.Fatalf("Recent() = [%s, %s], want chronological tail", got[0].Command, got[1].Command)
	}
	if got[0].ID == "" || got[0].ExecutedAt.IsZero() {
		t.Fatalf("record not defaulted: %+v", got[0])
	}
}

func TestInMemoryCapsOldestFirst(t *testing.T) {
	s := NewInMemoryStore(2)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, Record{Command: name}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	got, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 || got[0].Command != "b" || got[1].Command != "c" {
		t.Fatalf("Recent() = %+v, want the two newest", got)
	}
}

func TestRecentEmptyStore(t *testing.T) {
	s := NewInMemoryStore(10)
	got, err := s.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Recent() = %v, want nil", got)
	}
}

func TestFactoryDefaultsToInMemory(t *testing.T) {
	s, err := NewStore(context.Background(), "  ", 10)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer s.Close()
	if _, ok := s.(*InMemoryStore); !ok {
		t.Fatalf("store type = %T, want *InMemoryStore", s)
	}
}
