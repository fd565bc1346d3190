package history

import (
	"context"
	"time"
)

// Record stores one executed command for later inspection.
type Record struct {
	ID          string    `json:"id"`
	Command     string    `json:"command"`
	Number      uint64    `json:"number"`
	Disposition string    `json:"disposition"`
	ExecutedAt  time.Time `json:"executed_at"`
}

// Store persists and retrieves the command history journal.
type Store interface {
	Save(ctx context.Context, record Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
