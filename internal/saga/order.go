// Package saga contains the order saga: the domain model, the append-only
// order store, and the orchestrator that sequences the user, inventory and
// payment steps with compensation on failure.
package saga

import "time"

// OrderStatus is the lifecycle state of an order. An order starts pending
// and transitions exactly once to completed or failed.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderFailed    OrderStatus = "failed"
)

// StepName identifies a saga step. The set is closed: every entry in an
// order's step trail carries one of these names.
type StepName string

const (
	StepUserVerification  StepName = "user_verification"
	StepInventoryCheck    StepName = "inventory_check"
	StepPaymentProcessing StepName = "payment_processing"
	StepInventoryRollback StepName = "inventory_rollback"
	StepUnknown           StepName = "unknown"
)

// StepStatus is the outcome of a step attempt.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// Step is one entry in an order's audit trail. Entries are append-only and
// record the final outcome of each attempt; a step is never rewritten.
type Step struct {
	Name   StepName   `json:"step"`
	Status StepStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
	Data   any        `json:"data,omitempty"`
}

// Order is the record the orchestrator builds while driving a saga and
// finally hands to the store. The Steps slice reflects the exact causal
// path the saga took.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	Item        string      `json:"item"`
	Qty         int         `json:"qty"`
	Amount      float64     `json:"amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	Steps       []Step      `json:"steps"`
}

func (o *Order) addStep(name StepName, status StepStatus, reason string, data any) {
	o.Steps = append(o.Steps, Step{Name: name, Status: status, Reason: reason, Data: data})
}
