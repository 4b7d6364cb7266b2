package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoplane/order-sagas/internal/config"
	"github.com/shoplane/order-sagas/internal/gateway"
	"github.com/shoplane/order-sagas/internal/pkg/httpx"
	"github.com/shoplane/order-sagas/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("api-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("api-gateway")
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

	router, err := gateway.NewRouter(gateway.Backends{
		User:      cfg.Gateway.UserURL,
		Order:     cfg.Gateway.OrderURL,
		Inventory: cfg.Gateway.InventoryURL,
		Payment:   cfg.Gateway.PaymentURL,
	})
	if err != nil {
		slog.Error("failed to build gateway", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Service.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	slog.Info("api gateway running", "addr", cfg.Service.Addr)
	if err := httpx.Serve(ctx, srv); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
