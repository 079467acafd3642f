// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/movierec/internal/logging"
)

const defaultDrainTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService serves the recommendation API under supervision.
// Canceling the supervisor context drains in-flight requests for up to the
// drain timeout before Serve returns.
type HTTPServerService struct {
	server HTTPServer
	drain  time.Duration
}

// NewHTTPServerService wraps server. A non-positive drain timeout becomes 10s.
func NewHTTPServerService(server HTTPServer, drain time.Duration) *HTTPServerService {
	if drain <= 0 {
		drain = defaultDrainTimeout
	}
	return &HTTPServerService{server: server, drain: drain}
}

// Serve implements suture.Service.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	logger := logging.With().Str("service", s.String()).Logger()

	stopped := make(chan error, 1)
	go func() {
		stopped <- s.server.ListenAndServe()
	}()

	if srv, ok := s.server.(*http.Server); ok {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
	}

	select {
	case err := <-stopped:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)

	case <-ctx.Done():
	}

	logger.Info().Dur("drain", s.drain).Msg("Draining HTTP connections")

	// The supervisor context is already done.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.drain)
	defer cancel()

	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-stopped
	return ctx.Err()
}

func (s *HTTPServerService) String() string { return "http-server" }
