// Package main is the entry point for the Neoteran calendar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/neoteran-api/internal/api"
	"github.com/zapponejosh/neoteran-api/internal/config"
	"github.com/zapponejosh/neoteran-api/internal/ephemeris"
	"github.com/zapponejosh/neoteran-api/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting neoteran API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("ephemeris_source", cfg.EphemerisSource),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx := context.Background()

	source, err := ephemeris.Open(ctx, ephemeris.OptionsFromConfig(cfg), log)
	if err != nil {
		return fmt.Errorf("open ephemeris: %w", err)
	}
	defer source.Close()

	if cfg.UsesDatabase() {
		if cov, err := source.DB.EventCoverage(ctx); err == nil && cov.Phases.First != nil {
			log.Info("event coverage",
				slog.Time("first_phase", *cov.Phases.First),
				slog.Time("last_phase", *cov.Phases.Last),
				slog.Int("phases", cov.Phases.Count),
				slog.Int("seasons", cov.Seasons.Count),
			)
		}
	}

	handlers := api.NewHandlers(source, log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("neoteran API ready", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdown:
		log.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	if source.Cache != nil {
		stats := source.Cache.Stats()
		log.Info("cache statistics",
			slog.Int64("hits", stats.Hits),
			slog.Int64("misses", stats.Misses),
			slog.Int("entries", stats.Entries),
		)
	}

	log.Info("server stopped gracefully")
	return nil
}
