// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/metrics"
)

// ExpiringCache is a cache whose expired entries can be swept.
type ExpiringCache interface {
	CleanupExpired() int
	Len() int
}

// CacheJanitorService sweeps expired response cache entries periodically so
// memory is returned even for keys that are never requested again.
type CacheJanitorService struct {
	cache    ExpiringCache
	interval time.Duration
	logger   zerolog.Logger
}

// NewCacheJanitorService creates a janitor. interval defaults to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(cache ExpiringCache, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep drops expired entries and resyncs the entries gauge.
func (s *CacheJanitorService) sweep() {
	n := s.cache.CleanupExpired()
	if n == 0 {
		return
	}
	metrics.ResponseCacheEntries.Set(float64(s.cache.Len()))
	s.logger.Debug().Int("removed", n).Msg("expired responses swept")
}

func (s *CacheJanitorService) String() string {
	return "cache-janitor"
}
