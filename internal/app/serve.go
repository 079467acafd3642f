// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/movierec/internal/api"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/supervisor"
	"github.com/tomtom215/movierec/internal/supervisor/services"
)

// Server timeouts around the per-request handler timeout.
const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 120 * time.Second
)

// NewHTTPServer builds the http.Server serving the API.
func (a *App) NewHTTPServer() (*http.Server, *api.Handler) {
	handler := api.NewHandler(a.Engine, a.Config)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(a.Config))

	return &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       a.Config.Server.Timeout,
		WriteTimeout:      a.Config.Server.Timeout + readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}, handler
}

// NewSupervisorTree wires the API and model layers:
//   - api: HTTP server
//   - model: scheduled retraining and response cache sweeping
func (a *App) NewSupervisorTree() (*supervisor.SupervisorTree, error) {
	logger := logging.Logger()

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = a.Config.Server.ShutdownTimeout + 5*time.Second

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), treeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	server, handler := a.NewHTTPServer()
	tree.AddAPIService(services.NewHTTPServerService(server, a.Config.Server.ShutdownTimeout))

	tree.AddModelService(services.NewRetrainService(a.Engine, services.RetrainServiceConfig{
		Interval: a.Config.Models.RetrainInterval,
	}, logger))

	if c := handler.Cache(); c != nil {
		tree.AddModelService(services.NewCacheJanitorService(c, a.Config.Cache.TTL/2, logger))
	}

	logging.Info().
		Str("addr", server.Addr).
		Dur("retrain_interval", a.Config.Models.RetrainInterval).
		Bool("cache", handler.Cache() != nil).
		Msg("Supervisor tree configured")

	return tree, nil
}

// Serve runs the supervisor tree until ctx is canceled. The engine must
// already be booted.
func (a *App) Serve(ctx context.Context) error {
	tree, err := a.NewSupervisorTree()
	if err != nil {
		return err
	}

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// suture sends exactly one result and never closes the channel.
	var serveErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
		serveErr = err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	return serveErr
}
