package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/folio/internal/api"
	"github.com/ndewijer/folio/internal/app"
	"github.com/ndewijer/folio/internal/config"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Get().Fatalw("failed to load configuration", "error", err)
	}

	logging.Init(cfg.Log.Env)
	defer logging.Sync()
	log := logging.Get()

	ctx := context.Background()

	// Open and migrate the database, wire services
	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer a.Close()

	services := a.Services

	// Refresh timer
	sched := scheduler.New(services.Prices, services.Snapshot, 2*cfg.Market.Timeout)
	sched.Start()
	defer sched.Stop()

	settings, err := services.Settings.GetSettings(ctx)
	if err != nil {
		log.Fatalw("failed to read settings", "error", err)
	}
	if err := sched.Reschedule(settings.RefreshIntervalMinutes); err != nil {
		log.Warnw("invalid stored refresh interval, timer disabled", "minutes", settings.RefreshIntervalMinutes, "error", err)
	}
	services.Settings.OnRefreshIntervalChange(func(minutes int) {
		if err := sched.Reschedule(minutes); err != nil {
			log.Warnw("failed to reschedule refresh", "minutes", minutes, "error", err)
		}
	})

	// Publish a snapshot from the cached prices so the widget has data right away
	if _, err := services.Snapshot.Sync(ctx); err != nil {
		log.Warnw("initial snapshot sync failed", "error", err)
	}

	// Create router
	router := api.NewRouter(services, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infow("starting server", "addr", cfg.Server.Addr, "api_key", cfg.Server.APIKey != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Infow("server exited")
}
