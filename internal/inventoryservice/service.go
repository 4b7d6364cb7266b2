// Package inventoryservice implements the inventory provider: an in-memory
// stock ledger with decrease (the saga's forward step) and increase (its
// compensating action).
package inventoryservice

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shoplane/order-sagas/internal/saga"
)

// NotFoundError reports an unknown item.
type NotFoundError struct {
	Item string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Item '%s' not found in inventory", e.Item)
}

// InsufficientStockError reports a decrease larger than the stock on hand.
type InsufficientStockError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return "Not enough stock"
}

// AlreadyExistsError reports an attempt to add a duplicate item.
type AlreadyExistsError struct {
	Item string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("Item '%s' already exists", e.Item)
}

// Service is the stock ledger. Item names are case-insensitive and stored
// lowercased.
type Service struct {
	mu    sync.Mutex
	stock map[string]int
}

// NewService seeds the ledger with the default catalog.
func NewService() *Service {
	return &Service{
		stock: map[string]int{
			"apple":  100,
			"banana": 50,
			"orange": 75,
			"grape":  30,
		},
	}
}

// Snapshot returns a copy of the full ledger.
func (s *Service) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.stock))
	for item, qty := range s.stock {
		out[item] = qty
	}
	return out
}

// Quantity reports the stock of one item.
func (s *Service) Quantity(item string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	qty, ok := s.stock[strings.ToLower(item)]
	return qty, ok
}

// Decrease takes qty of item out of stock. The original (caller-cased)
// item name is echoed in errors; the lowercased name in the result.
func (s *Service) Decrease(item string, qty int) (saga.StockLevel, error) {
	key := strings.ToLower(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	available, ok := s.stock[key]
	if !ok {
		return saga.StockLevel{}, &NotFoundError{Item: item}
	}
	if available < qty {
		return saga.StockLevel{}, &InsufficientStockError{Item: key, Requested: qty, Available: available}
	}

	s.stock[key] -= qty
	return saga.StockLevel{Item: key, NewQuantity: s.stock[key]}, nil
}

// Increase puts qty of item back, creating the item when it is absent.
func (s *Service) Increase(item string, qty int) saga.StockLevel {
	key := strings.ToLower(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stock[key] += qty
	return saga.StockLevel{Item: key, NewQuantity: s.stock[key]}
}

// Add registers a brand-new item with an initial quantity.
func (s *Service) Add(item string, qty int) (saga.StockLevel, error) {
	key := strings.ToLower(item)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stock[key]; ok {
		return saga.StockLevel{}, &AlreadyExistsError{Item: item}
	}
	s.stock[key] = qty
	return saga.StockLevel{Item: key, NewQuantity: qty}, nil
}

// Totals reports the number of distinct items and the summed stock, for
// the health endpoint.
func (s *Service) Totals() (items, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, qty := range s.stock {
		total += qty
	}
	return len(s.stock), total
}

// Items returns the item names in sorted order.
func (s *Service) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.stock))
	for item := range s.stock {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
