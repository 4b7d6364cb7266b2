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
	"github.com/shoplane/order-sagas/internal/paymentservice"
	"github.com/shoplane/order-sagas/internal/pkg/httpx"
	"github.com/shoplane/order-sagas/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("payment-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("payment-service")
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

	handler := paymentservice.NewHandler(paymentservice.NewService(cfg.Payment.DeclineRate))
	srv := &http.Server{
		Addr:         cfg.Service.Addr,
		Handler:      paymentservice.NewRouter(handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	slog.Info("payment service running", "addr", cfg.Service.Addr)
	if err := httpx.Serve(ctx, srv); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}
