package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomasz-mizak/chatguard/internal/access"
	"github.com/tomasz-mizak/chatguard/internal/api"
	"github.com/tomasz-mizak/chatguard/internal/config"
	"github.com/tomasz-mizak/chatguard/internal/logging"
	"github.com/tomasz-mizak/chatguard/internal/metrics"
)

func main() {
	cfg, err := config.LoadOrEmpty(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg)
	m := metrics.New(logger)

	guard := access.Default
	guard.Observer = m

	// Warm the cache; a failure here is retried on the first request.
	if _, err := guard.Secret(); err != nil {
		logger.Warn().Err(err).Str("path", guard.Path()).Msg("access key not loaded at startup")
	} else {
		logger.Info().Str("path", guard.Path()).Msg("access key loaded")
	}

	port := cfg.Port()
	srv := api.NewServer(api.Options{
		Port:      port,
		Validator: guard,
		Logger:    logger,
		Metrics:   m.Handler(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}

	logger.Info().Msg("server stopped")
}
