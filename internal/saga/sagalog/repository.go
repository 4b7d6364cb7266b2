package sagalog

import (
	"context"
	"sync"
)

// Repository is the port for persisting saga log entries. The orchestrator
// depends on this abstraction so the in-memory implementation below can be
// swapped for a durable one without touching the core.
type Repository interface {
	// Save appends a new entry. The log is append-only, never an upsert.
	Save(ctx context.Context, entry *Entry) error

	// BySagaID returns all entries for one saga in write order.
	BySagaID(ctx context.Context, sagaID string) ([]Entry, error)
}

// MemoryRepository keeps the saga log in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryRepository) BySagaID(_ context.Context, sagaID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, e := range r.entries {
		if e.SagaID == sagaID {
			out = append(out, e)
		}
	}
	return out, nil
}
