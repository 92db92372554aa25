package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/erivas/wealthdesk/internal/catalog"
	"github.com/erivas/wealthdesk/internal/config"
	"github.com/erivas/wealthdesk/internal/domain"
	"github.com/erivas/wealthdesk/internal/engine"
	"github.com/erivas/wealthdesk/internal/handler"
	"github.com/erivas/wealthdesk/internal/service"
	"github.com/erivas/wealthdesk/internal/store"
	"github.com/erivas/wealthdesk/internal/wizard"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Reference data.
	cats := catalog.Seed()

	// Stores.
	sessionStore := store.NewSessionStore()
	orderStore := store.NewOrderStore()

	// Expiry sweeper for day/GTD orders.
	sweeper := engine.NewExpirySweeper(cfg.ExpiryInterval, orderStore)

	// Execution sink: HTTP when configured, local accept-all otherwise.
	var sink service.ExecutionSink = service.AcceptAllSink{}
	if cfg.ExecutionURL != "" {
		sink = service.NewHTTPSink(cfg.ExecutionURL, cfg.ExecutionTimeout)
	}

	orderSvc := service.NewOrderService(cats, orderStore, sweeper, sink, logger)

	// Handlers.
	catalogH := handler.NewCatalogHandler(cats)
	wizardH := handler.NewWizardHandler(sessionStore, func(id string, t domain.OrderType) *wizard.Session {
		return wizard.NewSession(id, cats, orderSvc, t)
	})
	orderH := handler.NewOrderHandler(orderSvc)

	router := handler.NewRouter(catalogH, wizardH, orderH, logger)

	// Start expiry goroutine with cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops sweeper).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
