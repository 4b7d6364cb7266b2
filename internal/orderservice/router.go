package orderservice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/order-sagas/internal/pkg/httpx"
)

// NewRouter builds the orchestrator's HTTP surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.Traces("order-service"))
	r.Use(httpx.AttachMetadata)
	r.Use(httpx.RequestLogger)
	r.Use(httpx.Metrics)
	r.Use(middleware.Recoverer)

	r.Post("/orders", h.CreateOrder)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
	r.Get("/sagas/{id}", h.GetSaga)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
