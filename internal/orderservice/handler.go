// Package orderservice is the HTTP surface of the saga orchestrator. It
// translates saga outcomes into the status codes callers rely on and makes
// order creation idempotent when a redis cache is configured.
package orderservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shoplane/order-sagas/internal/pkg/cache"
	"github.com/shoplane/order-sagas/internal/pkg/httpx"
	"github.com/shoplane/order-sagas/internal/saga"
	"github.com/shoplane/order-sagas/internal/saga/sagalog"
)

// Handler handles the /orders endpoints.
type Handler struct {
	orch  *saga.Orchestrator
	store *saga.Store
	sagas sagalog.Repository
	idem  *cache.IdempotencyStore // nil disables idempotent replay
}

func NewHandler(orch *saga.Orchestrator, store *saga.Store, sagas sagalog.Repository, idem *cache.IdempotencyStore) *Handler {
	return &Handler{orch: orch, store: store, sagas: sagas, idem: idem}
}

// failedOrderBody is the error envelope for a terminally failed order: the
// record, including its full step trail, always accompanies the error.
type failedOrderBody struct {
	Error string      `json:"error"`
	Order *saga.Order `json:"order,omitempty"`
}

// CreateOrder runs the saga for one inbound order request.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Seconds()
		orderDuration.Observe(elapsed)
		orderSummary.Observe(elapsed)
	}()

	ctx := r.Context()

	var in saga.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		ordersFailed.WithLabelValues("validation").Inc()
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	idemKey := httpx.IdempotencyKey(ctx)
	if h.idem != nil && idemKey != "" {
		if cached, ok, err := h.idem.Recall(ctx, idemKey); err != nil {
			slog.WarnContext(ctx, "idempotency lookup failed", "error", err)
		} else if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(cached.Status)
			_, _ = w.Write(cached.Body)
			return
		}
	}

	order, err := h.orch.CreateOrder(ctx, in)

	var status int
	var body any
	if err != nil {
		var fail *saga.Failure
		if !errors.As(err, &fail) {
			fail = &saga.Failure{Code: saga.CodeUnexpected, HTTPStatus: http.StatusInternalServerError, Reason: "Internal server error"}
		}
		ordersFailed.WithLabelValues(fail.MetricReason()).Inc()
		status = fail.HTTPStatus
		body = failedOrderBody{Error: fail.Reason, Order: order}
	} else {
		ordersCreated.Inc()
		ordersInSystem.Set(float64(h.store.CompletedCount()))
		status = http.StatusCreated
		body = order
	}

	raw, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if h.idem != nil && idemKey != "" {
		if err := h.idem.Remember(ctx, idemKey, status, raw); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(bytes.TrimRight(raw, "\n"), '\n'))
}

// ListOrders returns every stored order in insertion order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.store.List()
	if orders == nil {
		orders = []*saga.Order{}
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

// GetOrder returns a single stored order by id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}

	order, ok := h.store.Get(id)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

// GetSaga returns the transition log recorded for one order's saga.
func (h *Handler) GetSaga(w http.ResponseWriter, r *http.Request) {
	entries, err := h.sagas.BySagaID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(entries) == 0 {
		httpx.WriteError(w, http.StatusNotFound, "Saga not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "Order service is healthy"})
}
