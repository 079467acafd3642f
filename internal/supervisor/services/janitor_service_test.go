// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/cache"
	"github.com/tomtom215/movierec/internal/metrics"
)

// The entries gauge is global, so these tests do not run in parallel.

func TestCacheJanitorService_String(t *testing.T) {
	svc := NewCacheJanitorService(cache.NewLRU[int](4, time.Minute), 0, zerolog.Nop())
	if got := svc.String(); got != "cache-janitor" {
		t.Errorf("String() = %q, want cache-janitor", got)
	}
	if svc.interval != time.Minute {
		t.Errorf("interval = %v, want 1m default", svc.interval)
	}
}

func TestCacheJanitorService_SweepUpdatesGauge(t *testing.T) {
	c := cache.NewLRU[int](8, 20*time.Millisecond)
	c.Add("recs:1:10", 1)
	c.Add("recs:2:10", 2)
	metrics.ResponseCacheEntries.Set(float64(c.Len()))

	time.Sleep(40 * time.Millisecond)
	c.Add("recs:3:10", 3)
	metrics.ResponseCacheEntries.Set(float64(c.Len()))

	svc := NewCacheJanitorService(c, time.Hour, zerolog.Nop())
	svc.sweep()

	if got := c.Len(); got != 1 {
		t.Fatalf("Len() = %d after sweep, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ResponseCacheEntries); got != 1 {
		t.Errorf("response cache entries gauge = %v, want 1", got)
	}
}

func TestCacheJanitorService_Serve(t *testing.T) {
	c := cache.NewLRU[int](8, 10*time.Millisecond)
	c.Add("similar:1:10", 1)
	metrics.ResponseCacheEntries.Set(1)

	svc := NewCacheJanitorService(c, 15*time.Millisecond, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d, want expired entry swept", got)
	}
	if got := testutil.ToFloat64(metrics.ResponseCacheEntries); got != 0 {
		t.Errorf("response cache entries gauge = %v, want 0", got)
	}
}
