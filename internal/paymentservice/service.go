// Package paymentservice implements the payment provider. It simulates a
// gateway: a configurable fraction of charges is declined, and the outcome
// is reported through a human-readable message the way real legacy
// processors often do.
package paymentservice

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Receipt is the outcome of one charge attempt.
type Receipt struct {
	Approved      bool
	Message       string
	TransactionID string
}

// Service simulates payment capture.
type Service struct {
	declineRate float64
	randFloat   func() float64

	mu      sync.Mutex
	charges map[int64]float64
}

// Option configures a Service.
type Option func(*Service)

// WithRandFloat replaces the randomness source, for deterministic tests.
func WithRandFloat(fn func() float64) Option {
	return func(s *Service) { s.randFloat = fn }
}

// NewService builds a payment service declining roughly declineRate of all
// charges (0 disables declines, 1 declines everything).
func NewService(declineRate float64, opts ...Option) *Service {
	s := &Service{
		declineRate: declineRate,
		randFloat:   rand.Float64,
		charges:     make(map[int64]float64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Charge attempts to capture amount for an order.
func (s *Service) Charge(orderID int64, amount float64) Receipt {
	if s.randFloat() < s.declineRate {
		return Receipt{
			Approved: false,
			Message:  fmt.Sprintf("Payment for order %d failed", orderID),
		}
	}

	s.mu.Lock()
	s.charges[orderID] = amount
	s.mu.Unlock()

	return Receipt{
		Approved:      true,
		Message:       fmt.Sprintf("Payment of $%s for order %d successful", strconv.FormatFloat(amount, 'f', -1, 64), orderID),
		TransactionID: uuid.NewString(),
	}
}

// Charged reports the captured amount for an order, if any.
func (s *Service) Charged(orderID int64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	amount, ok := s.charges[orderID]
	return amount, ok
}
