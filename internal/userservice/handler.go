package userservice

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplane/order-sagas/internal/pkg/httpx"
)

// Handler exposes the user registry over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// NewRouter builds the identity provider's HTTP surface.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.Traces("user-service"))
	r.Use(httpx.RequestLogger)
	r.Use(httpx.Metrics)
	r.Use(middleware.Recoverer)

	r.Get("/users", h.ListUsers)
	r.Post("/users", h.AddUser)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	users := h.svc.List()
	activeUsers.Set(float64(len(users)))
	requestDuration.Observe(time.Since(start).Seconds())
	httpx.WriteJSON(w, http.StatusOK, users)
}

type addUserRequest struct {
	Name string `json:"name"`
}

func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user := h.svc.Add(req.Name)
	usersCreated.Inc()
	activeUsers.Set(float64(len(h.svc.List())))
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "User service is healthy"})
}
