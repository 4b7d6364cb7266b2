package paymentservice

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/order-sagas/internal/pkg/httpx"
)

// Handler exposes payment capture over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// NewRouter builds the payment provider's HTTP surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.Traces("payment-service"))
	r.Use(httpx.RequestLogger)
	r.Use(httpx.Metrics)
	r.Use(middleware.Recoverer)

	r.Post("/payments", h.Charge)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type chargeRequest struct {
	OrderID int64   `json:"orderId"`
	Amount  float64 `json:"amount"`
}

type chargeResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

// Charge always answers 200: the business outcome travels in the message
// text, matching the contract the orchestrator's payment client parses.
func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { paymentLatency.Observe(time.Since(start).Seconds()) }()

	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	receipt := h.svc.Charge(req.OrderID, req.Amount)
	paymentsTotal.Inc()
	if receipt.Approved {
		successfulPayments.Inc()
	}

	httpx.WriteJSON(w, http.StatusOK, chargeResponse{
		Message:       receipt.Message,
		TransactionID: receipt.TransactionID,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "Payment service is healthy"})
}
