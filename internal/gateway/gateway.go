// Package gateway implements the public entry point: a prefix-routing
// reverse proxy in front of the user, order, inventory and payment
// services, with permissive CORS for browser clients.
package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shoplane/order-sagas/internal/pkg/httpx"
)

// Backends holds the base URLs of the four services behind the gateway.
type Backends struct {
	User      string
	Order     string
	Inventory string
	Payment   string
}

// NewRouter builds the gateway. /user/* forwards to the user service with
// the prefix stripped, and likewise for the other three routes.
func NewRouter(b Backends) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.Traces("api-gateway"))
	r.Use(httpx.RequestLogger)
	r.Use(cors)
	r.Use(middleware.Recoverer)

	routes := []struct {
		prefix string
		name   string
		target string
	}{
		{"/user", "User", b.User},
		{"/order", "Order", b.Order},
		{"/inventory", "Inventory", b.Inventory},
		{"/payment", "Payment", b.Payment},
	}

	for _, route := range routes {
		proxy, err := newProxy(route.name, route.target)
		if err != nil {
			return nil, err
		}
		r.Handle(route.prefix+"/*", http.StripPrefix(route.prefix, proxy))
	}
	return r, nil
}

func newProxy(name, target string) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse %s backend url %q: %w", name, target, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		slog.ErrorContext(r.Context(), "backend unreachable", "backend", name, "error", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, name+" Service unavailable")
	}
	return proxy, nil
}

// cors allows any origin; the gateway fronts a demo storefront, not an
// authenticated API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+httpx.HeaderIdempotencyKey)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
