// Wellness companion server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wellnest/companion/internal/api"
	"github.com/wellnest/companion/internal/app"
	"github.com/wellnest/companion/internal/config"
	"github.com/wellnest/companion/internal/stream"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting companion",
		"port", cfg.Port,
		"backend", cfg.BackendURL,
		"credential_store", cfg.CredentialStore,
		"dev", cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	companion, err := app.New(ctx, cfg, logger)
	if err != nil {
		slog.Error("Failed to initialize companion", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := companion.Close(); closeErr != nil {
			slog.Error("Failed to close credential store", "error", closeErr)
		}
	}()
	slog.Info("Credential store connected", "mode", companion.Session.Mode())

	// Initialize handlers.
	baseHandler := api.NewHandler(companion.Session, companion.Auth, companion.Dispatcher, companion.Wellness, logger)
	healthHandler := api.NewHealthHandler(companion.Store, 5*time.Second)
	wsHandler := stream.NewWebSocketHandler(companion.Session, cfg.FrontendURL, cfg.IsDevelopment(), logger)

	r := api.NewRouter(baseHandler, healthHandler, wsHandler, cfg.AllowedOrigins())

	// Chat requests may take up to ChatTimeout; websocket streams are long-lived.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server stopped successfully")
}
