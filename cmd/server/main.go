// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/movierec/internal/app"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load("")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("data_source", cfg.Data.Source).
		Str("model_dir", cfg.Models.Dir).
		Str("model_backend", cfg.Models.Backend).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	os.Exit(run(ctx, cfg))
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(ctx context.Context, cfg *config.Config) int {
	a, err := app.New(cfg, app.Options{Progress: os.Stderr})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize")
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing model store")
		}
	}()

	if err := a.Boot(ctx); err != nil {
		logging.Error().Err(err).Msg("Failed to load models")
		return 1
	}

	status := a.Engine.Status()
	logging.Info().
		Int("users", status.Users).
		Int("movies", status.Movies).
		Int("ratings", status.Ratings).
		Msg("Models ready")

	if err := a.Serve(ctx); err != nil {
		return 1
	}

	logging.Info().Msg("Application stopped gracefully")
	return 0
}
