package saga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shoplane/order-sagas/internal/saga/sagalog"
)

const defaultCallTimeout = 5 * time.Second

// CreateOrderInput is the caller-supplied part of an order. Amount is
// optional; when zero it defaults to Qty * 10.
type CreateOrderInput struct {
	UserID int64   `json:"userId"`
	Item   string  `json:"item"`
	Qty    int     `json:"qty"`
	Amount float64 `json:"amount,omitempty"`
}

// Config tunes the orchestrator.
type Config struct {
	// CallTimeout bounds every outbound call to a downstream provider.
	// Zero means the default of 5s; negative disables the bound.
	CallTimeout time.Duration

	// Now is the clock, replaceable in tests.
	Now func() time.Time
}

// Orchestrator drives the create-order saga: user verification, inventory
// reservation, payment capture, with an inventory rollback as the
// compensating action when payment fails after stock was already taken.
type Orchestrator struct {
	users     UserClient
	inventory InventoryClient
	payments  PaymentClient
	store     *Store
	log       sagalog.Repository // nil-safe: transitions are skipped if nil

	callTimeout time.Duration
	now         func() time.Time
}

// NewOrchestrator wires the orchestrator to its three downstream clients
// and the order store it exclusively owns.
func NewOrchestrator(users UserClient, inventory InventoryClient, payments PaymentClient, store *Store, log sagalog.Repository, cfg Config) *Orchestrator {
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		users:       users,
		inventory:   inventory,
		payments:    payments,
		store:       store,
		log:         log,
		callTimeout: timeout,
		now:         now,
	}
}

// CreateOrder runs the saga for one order. The returned order is non-nil
// for every outcome except a validation failure: a terminally failed order
// is stored and returned alongside its *Failure so callers always get the
// full step trail.
func (o *Orchestrator) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	if in.UserID == 0 || in.Item == "" || in.Qty <= 0 {
		// No id is allocated and nothing is stored for invalid input.
		return nil, validationFailure("Missing required fields: userId, item, qty")
	}

	amount := in.Amount
	if amount == 0 {
		amount = float64(in.Qty) * 10
	}

	order := &Order{
		ID:        o.store.NextID(),
		UserID:    in.UserID,
		Item:      in.Item,
		Qty:       in.Qty,
		Amount:    amount,
		Status:    OrderPending,
		CreatedAt: o.now().UTC(),
		Steps:     []Step{},
	}

	payload, _ := json.Marshal(in)
	o.record(ctx, order, sagalog.StatusStarted, "", string(payload), nil)

	fail := o.run(ctx, order)
	if fail != nil {
		order.Status = OrderFailed
		o.store.Append(order)
		o.record(ctx, order, sagalog.StatusFailed, lastStepName(order), "", []string{fail.Reason})
		return order, fail
	}

	done := o.now().UTC()
	order.Status = OrderCompleted
	order.CompletedAt = &done
	o.store.Append(order)
	o.record(ctx, order, sagalog.StatusCompleted, string(StepPaymentProcessing), "", nil)
	return order, nil
}

// run executes the forward steps in strict sequence. Any panic escaping a
// step is converted into the unknown step so the order still carries an
// audit trail for faults nobody anticipated.
func (o *Orchestrator) run(ctx context.Context, order *Order) (fail *Failure) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "unexpected fault in order saga", "order_id", order.ID, "panic", r)
			order.addStep(StepUnknown, StepFailed, fmt.Sprint(r), nil)
			fail = unexpectedFailure("Internal server error")
		}
	}()

	if fail = o.verifyUser(ctx, order); fail != nil {
		return fail
	}
	if fail = o.reserveInventory(ctx, order); fail != nil {
		return fail
	}
	return o.capturePayment(ctx, order)
}

func (o *Orchestrator) verifyUser(ctx context.Context, order *Order) *Failure {
	users, err := o.listUsers(ctx)
	if err != nil {
		order.addStep(StepUserVerification, StepFailed, "Service unavailable", nil)
		return upstreamFailure("user", "User service unavailable", err)
	}

	for _, u := range users {
		if u.ID == order.UserID {
			order.addStep(StepUserVerification, StepCompleted, "", nil)
			o.record(ctx, order, sagalog.StatusStepDone, string(StepUserVerification), "", nil)
			return nil
		}
	}

	order.addStep(StepUserVerification, StepFailed, "User not found", nil)
	return userNotFoundFailure()
}

func (o *Orchestrator) reserveInventory(ctx context.Context, order *Order) *Failure {
	level, err := o.decreaseStock(ctx, order.Item, order.Qty)
	if err != nil {
		reason := "Inventory service error"
		status := http.StatusServiceUnavailable
		var stockErr *StockError
		if errors.As(err, &stockErr) {
			// The provider responded: mirror its reason and status.
			reason = stockErr.Message
			status = stockErr.StatusCode
		}
		order.addStep(StepInventoryCheck, StepFailed, reason, nil)
		return inventoryFailure(status, reason, err)
	}

	order.addStep(StepInventoryCheck, StepCompleted, "", level)
	o.record(ctx, order, sagalog.StatusStepDone, string(StepInventoryCheck), "", nil)
	return nil
}

func (o *Orchestrator) capturePayment(ctx context.Context, order *Order) *Failure {
	result, err := o.charge(ctx, order.ID, order.Amount)
	if err != nil {
		order.addStep(StepPaymentProcessing, StepFailed, "Service unavailable", nil)
		o.rollbackInventory(ctx, order)
		return upstreamFailure("payment", "Payment service unavailable", err)
	}

	if !result.Approved {
		order.addStep(StepPaymentProcessing, StepFailed, "Payment declined", nil)
		o.rollbackInventory(ctx, order)
		return paymentDeclinedFailure()
	}

	order.addStep(StepPaymentProcessing, StepCompleted, "", result)
	o.record(ctx, order, sagalog.StatusStepDone, string(StepPaymentProcessing), "", nil)
	return nil
}

// rollbackInventory compensates a completed inventory_check by putting the
// stock back. A rollback failure is recorded and logged as critical but
// never changes the outcome the preceding failure already decided; the
// inventory is left decremented and no retry is attempted.
func (o *Orchestrator) rollbackInventory(ctx context.Context, order *Order) {
	// Compensation must run even when the request context is already dead
	// (timeout or caller hang-up): detach from cancellation but keep values
	// so tracing metadata survives.
	ctx = context.WithoutCancel(ctx)

	o.record(ctx, order, sagalog.StatusCompensating, string(StepInventoryRollback), "", nil)

	if _, err := o.increaseStock(ctx, order.Item, order.Qty); err != nil {
		order.addStep(StepInventoryRollback, StepFailed, "Rollback failed", nil)
		slog.ErrorContext(ctx, "CRITICAL: inventory rollback failed",
			"order_id", order.ID,
			"item", order.Item,
			"qty", order.Qty,
			"error", err,
		)
		return
	}
	order.addStep(StepInventoryRollback, StepCompleted, "", nil)
}

func (o *Orchestrator) listUsers(ctx context.Context) ([]User, error) {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.users.ListUsers(ctx)
}

func (o *Orchestrator) decreaseStock(ctx context.Context, item string, qty int) (StockLevel, error) {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.inventory.DecreaseStock(ctx, item, qty)
}

func (o *Orchestrator) increaseStock(ctx context.Context, item string, qty int) (StockLevel, error) {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.inventory.IncreaseStock(ctx, item, qty)
}

func (o *Orchestrator) charge(ctx context.Context, orderID int64, amount float64) (ChargeResult, error) {
	ctx, cancel := o.callCtx(ctx)
	defer cancel()
	return o.payments.Charge(ctx, orderID, amount)
}

// callCtx bounds a single downstream call so a stalled provider cannot
// block the saga indefinitely.
func (o *Orchestrator) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.callTimeout)
}

func (o *Orchestrator) record(ctx context.Context, order *Order, status sagalog.Status, step, payload string, errs []string) {
	if o.log == nil {
		return
	}
	entry := sagalog.NewEntry(ctx, strconv.FormatInt(order.ID, 10), status, step, payload, errs)
	if err := o.log.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to record saga transition", "order_id", order.ID, "error", err)
	}
}

func lastStepName(order *Order) string {
	if len(order.Steps) == 0 {
		return ""
	}
	return string(order.Steps[len(order.Steps)-1].Name)
}
