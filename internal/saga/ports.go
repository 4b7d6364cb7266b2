package saga

import (
	"context"
	"fmt"
)

// User is a record returned by the identity provider.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StockLevel is the payload the inventory provider returns after a
// successful stock adjustment.
type StockLevel struct {
	Item        string `json:"item"`
	NewQuantity int    `json:"newQuantity"`
}

// ChargeResult is the tagged outcome of a payment attempt. The payment
// provider only speaks through a free-text message; the client translates
// that into Approved exactly once so the orchestrator never inspects text.
type ChargeResult struct {
	Approved      bool   `json:"-"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

// StockError is a structured rejection from the inventory provider, such as
// insufficient stock or an unknown item. Transport-level errors are plain
// errors, not StockErrors.
type StockError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Item       string `json:"item,omitempty"`
	Requested  int    `json:"requested,omitempty"`
	Available  int    `json:"available,omitempty"`
}

func (e *StockError) Error() string {
	return fmt.Sprintf("inventory rejected request (%d): %s", e.StatusCode, e.Message)
}

// UserClient fetches users from the identity provider.
type UserClient interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// InventoryClient adjusts stock at the inventory provider. DecreaseStock is
// the forward step; IncreaseStock is its compensating action.
type InventoryClient interface {
	DecreaseStock(ctx context.Context, item string, qty int) (StockLevel, error)
	IncreaseStock(ctx context.Context, item string, qty int) (StockLevel, error)
}

// PaymentClient captures a payment for an order.
type PaymentClient interface {
	Charge(ctx context.Context, orderID int64, amount float64) (ChargeResult, error)
}
