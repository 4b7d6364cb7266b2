package saga

import (
	"sync"
	"sync/atomic"
)

// Store is the append-only, id-indexed collection of finished orders. The
// orchestrator owns it exclusively: an order is appended exactly once, after
// its status turned terminal, and is never mutated afterwards.
//
// Ids are allocated from an atomic counter so that interleaved sagas can
// never observe the same id.
type Store struct {
	nextID atomic.Int64

	mu     sync.RWMutex
	orders []*Order
}

func NewStore() *Store {
	return &Store{}
}

// NextID hands out the next order id. Ids are strictly increasing and never
// reused, including for orders that end up failed.
func (s *Store) NextID() int64 {
	return s.nextID.Add(1)
}

// Append stores a finalized order snapshot.
func (s *Store) Append(o *Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
}

// List returns all stored orders in insertion order.
func (s *Store) List() []*Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Get looks an order up by id. A linear scan is fine at this scale.
func (s *Store) Get(id int64) (*Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// CompletedCount reports how many stored orders finished successfully.
func (s *Store) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, o := range s.orders {
		if o.Status == OrderCompleted {
			n++
		}
	}
	return n
}
