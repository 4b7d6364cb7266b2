package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoplane/order-sagas/internal/clients"
	"github.com/shoplane/order-sagas/internal/config"
	"github.com/shoplane/order-sagas/internal/orderservice"
	"github.com/shoplane/order-sagas/internal/pkg/cache"
	"github.com/shoplane/order-sagas/internal/pkg/httpx"
	"github.com/shoplane/order-sagas/internal/pkg/telemetry"
	"github.com/shoplane/order-sagas/internal/saga"
	"github.com/shoplane/order-sagas/internal/saga/sagalog"
)

func main() {
	telemetry.InitLogger("order-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("order-service")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	shutdown, err := telemetry.SetupTracer(ctx, cfg.Service.Name)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	hc := &http.Client{Timeout: cfg.Saga.CallTimeout}
	store := saga.NewStore()
	sagas := sagalog.NewMemoryRepository()
	orch := saga.NewOrchestrator(
		clients.NewUserClient(cfg.Providers.UserURL, hc),
		clients.NewInventoryClient(cfg.Providers.InventoryURL, hc),
		clients.NewPaymentClient(cfg.Providers.PaymentURL, hc),
		store,
		sagas,
		saga.Config{CallTimeout: cfg.Saga.CallTimeout},
	)

	var idem *cache.IdempotencyStore
	if cfg.Redis.Addr != "" {
		idem = cache.NewIdempotencyStore(cache.NewRedisCache(cfg.Redis.Addr, "order"), cfg.Idempotency.TTL)
	}

	handler := orderservice.NewHandler(orch, store, sagas, idem)
	srv := &http.Server{
		Addr:         cfg.Service.Addr,
		Handler:      orderservice.NewRouter(handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	slog.Info("order service running", "addr", cfg.Service.Addr)
	if err := httpx.Serve(ctx, srv); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
