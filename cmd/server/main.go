package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Solid7731/flowclient-api/internal/config"
	"github.com/Solid7731/flowclient-api/internal/feed"
	"github.com/Solid7731/flowclient-api/internal/logging"
	"github.com/Solid7731/flowclient-api/internal/presence"
	"github.com/Solid7731/flowclient-api/internal/server"
	"github.com/Solid7731/flowclient-api/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, registry *presence.Registry, hub *feed.Hub, stopReaper func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		stopReaper()
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		// Nothing is persisted; drop all presence state before exit.
		registry.Clear()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting",
		"env", cfg.AppEnv,
		"port", cfg.Port,
		"version", version.Get().Version,
	)

	registry := presence.NewRegistry(clock)
	hub := feed.NewHub(cfg.MaxFeedConnections)

	reaper := presence.NewReaper(registry, clock, cfg.CleanupInterval, cfg.PlayerTimeout, hub)
	stopReaper := reaper.Start()

	srv := server.NewServer(cfg, registry, hub)

	done := runGracefulShutdown(srv, registry, hub, stopReaper)

	slog.Info("Server starting",
		"port", cfg.Port,
		"player_timeout", cfg.PlayerTimeout,
		"cleanup_interval", cfg.CleanupInterval,
	)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
