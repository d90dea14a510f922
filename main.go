package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdusco/shortener/internal/config"
	"github.com/abdusco/shortener/internal/db"
	"github.com/abdusco/shortener/internal/logger"
	"github.com/abdusco/shortener/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse configuration from environment")
	}

	logFile, err := logger.Setup(logger.Config{
		Level:   cfg.LogLevel,
		Console: cfg.Debug,
		File:    cfg.LogFile,
	})
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("failed to set up logging")
	}
	defer logFile.Close()

	// DatabaseURL is left out, it may carry credentials
	log.Info().
		Str("address", cfg.Addr()).
		Str("log_level", cfg.LogLevel).
		Str("log_file", cfg.LogFile).
		Bool("debug", cfg.Debug).
		Dur("shutdown_timeout", cfg.ShutdownTimeout).
		Msg("current configuration")

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Msg("starting application")

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	e := server.New(database)
	defer e.Close()

	log.Info().Str("address", cfg.Addr()).Msg("server starting")

	return runServer(ctx, e, cfg.Addr(), cfg.ShutdownTimeout)
}

func runServer(ctx context.Context, e *echo.Echo, addr string, shutdownTimeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(addr)
	}()

	// Wait for Ctrl+C / SIGTERM, or for the listener to fail on its own
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during graceful shutdown")
	}

	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server error")
	}

	log.Info().Msg("server stopped")
	return nil
}
