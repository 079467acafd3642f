// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/movierec/internal/recommend"
)

// LiveResponse is the body of the liveness probe.
type LiveResponse struct {
	Alive  bool    `json:"alive"`
	Uptime float64 `json:"uptime"`
}

// ReadyResponse is the body of the readiness probe.
type ReadyResponse struct {
	recommend.Status
	Uptime float64 `json:"uptime"`
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of model state
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive.
// @Tags Health
// @Produce json
// @Success 200 {object} LiveResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, LiveResponse{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only once a model snapshot is being served
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 with the served snapshot once models are loaded, 503 with ready=false before that.
// @Tags Health
// @Produce json
// @Success 200 {object} ReadyResponse "Service is ready"
// @Failure 503 {object} ReadyResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	body := ReadyResponse{
		Status: h.engine.Status(),
		Uptime: time.Since(h.startTime).Seconds(),
	}

	status := http.StatusOK
	if !body.Ready {
		status = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).JSONStatus(status, body)
}
