// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package services wraps Movierec components as suture services.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/metrics"
)

// Retrainer reloads the dataset and swaps in freshly trained models.
// *recommend.Engine satisfies it.
type Retrainer interface {
	Retrain(ctx context.Context) error
}

// RetrainServiceConfig holds configuration for scheduled retraining.
type RetrainServiceConfig struct {
	// Interval between retrains. Must be positive.
	Interval time.Duration

	// Timeout bounds a single retrain. Default: 30m
	Timeout time.Duration
}

// RetrainService retrains the models on a fixed schedule. A failed retrain is
// logged and counted. The engine keeps serving the previous snapshot.
type RetrainService struct {
	engine Retrainer
	config RetrainServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRetrainService creates a new retrain service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(engine Retrainer, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RetrainService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "retrain").Logger(),
		name:   "retrain-service",
	}
}

// Serve implements suture.Service.
func (s *RetrainService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Info().Msg("scheduled retraining disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().Dur("interval", s.config.Interval).Msg("retrain service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.retrain(ctx); err != nil {
				metrics.RetrainErrors.Inc()
				s.logger.Warn().Err(err).Msg("scheduled retrain failed")
			}
		}
	}
}

func (s *RetrainService) retrain(ctx context.Context) error {
	retrainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Retrain(retrainCtx); err != nil {
		return err
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("scheduled retrain complete")
	return nil
}

func (s *RetrainService) String() string {
	return s.name
}
