package inventoryservice

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/order-sagas/internal/pkg/httpx"
)

// Handler exposes the stock ledger over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// NewRouter builds the inventory provider's HTTP surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.Traces("inventory-service"))
	r.Use(httpx.RequestLogger)
	r.Use(httpx.Metrics)
	r.Use(middleware.Recoverer)

	r.Get("/inventory", h.ListInventory)
	r.Get("/inventory/{item}", h.GetItem)
	r.Post("/inventory", h.AddItem)
	r.Post("/inventory/decrease", h.Decrease)
	r.Post("/inventory/increase", h.Increase)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

type adjustRequest struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

type adjustResponse struct {
	Message     string `json:"message"`
	Item        string `json:"item"`
	NewQuantity int    `json:"newQuantity"`
}

func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	snapshot := h.svc.Snapshot()
	for item, qty := range snapshot {
		stockGauge.WithLabelValues(item).Set(float64(qty))
	}
	httpx.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")
	qty, ok := h.svc.Quantity(item)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, (&NotFoundError{Item: item}).Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"item": item, "quantity": qty})
}

func (h *Handler) Decrease(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { updateDuration.Observe(time.Since(start).Seconds()) }()

	req, ok := h.decodeAdjust(w, r)
	if !ok {
		return
	}

	level, err := h.svc.Decrease(req.Item, req.Qty)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			httpx.WriteError(w, http.StatusNotFound, notFound.Error())
			return
		}
		var short *InsufficientStockError
		if errors.As(err, &short) {
			httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":     short.Error(),
				"item":      short.Item,
				"requested": short.Requested,
				"available": short.Available,
			})
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updateCounter.WithLabelValues("decrease").Inc()
	stockGauge.WithLabelValues(level.Item).Set(float64(level.NewQuantity))
	httpx.WriteJSON(w, http.StatusOK, adjustResponse{
		Message:     fmt.Sprintf("Decreased %s by %d", req.Item, req.Qty),
		Item:        level.Item,
		NewQuantity: level.NewQuantity,
	})
}

func (h *Handler) Increase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { updateDuration.Observe(time.Since(start).Seconds()) }()

	req, ok := h.decodeAdjust(w, r)
	if !ok {
		return
	}

	level := h.svc.Increase(req.Item, req.Qty)
	updateCounter.WithLabelValues("increase").Inc()
	stockGauge.WithLabelValues(level.Item).Set(float64(level.NewQuantity))
	httpx.WriteJSON(w, http.StatusOK, adjustResponse{
		Message:     fmt.Sprintf("Increased %s by %d", req.Item, req.Qty),
		Item:        level.Item,
		NewQuantity: level.NewQuantity,
	})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Missing required fields: item, qty")
		return
	}

	level, err := h.svc.Add(req.Item, req.Qty)
	if err != nil {
		var exists *AlreadyExistsError
		if errors.As(err, &exists) {
			httpx.WriteError(w, http.StatusConflict, exists.Error())
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updateCounter.WithLabelValues("add").Inc()
	stockGauge.WithLabelValues(level.Item).Set(float64(level.NewQuantity))
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  fmt.Sprintf("Added %s to inventory", req.Item),
		"item":     level.Item,
		"quantity": level.NewQuantity,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	items, total := h.svc.Totals()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "Inventory service is healthy",
		"itemCount":  items,
		"totalStock": total,
	})
}

func (h *Handler) decodeAdjust(w http.ResponseWriter, r *http.Request) (adjustRequest, bool) {
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Item == "" || req.Qty == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "Missing required fields: item, qty")
		return adjustRequest{}, false
	}
	return req, true
}
