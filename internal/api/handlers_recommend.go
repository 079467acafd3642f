// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/recommend"
)

// Recs handles GET /api/recs
//
// @Summary Collaborative filtering recommendations
// @Description Returns the top-k movies for a user from the user-user KNN model. Movies the user has rated are excluded. Unknown users get an empty list.
// @Tags Recommend
// @Produce json
// @Param user_id query int false "User ID" default(1)
// @Param k query int false "Number of results" default(10)
// @Success 200 {array} recommend.ScoredMovie
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /recs [get]
func (h *Handler) Recs(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRecsRequest(r)
	if err != nil {
		respondParamError(w, r, err)
		return
	}
	if err := validateRequest(&req, req.K, h.maxK()); err != nil {
		respondValidation(w, r, err)
		return
	}

	key := cacheKey("recs", itoa(req.UserID), itoa(req.K))
	results, err := h.cached("recs", key, func() ([]recommend.ScoredMovie, error) {
		return h.engine.RecommendForUser(req.UserID, req.K)
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().Int("user_id", req.UserID).Int("k", req.K).Int("results", len(results)).Msg("Recommendations served")
	WriteJSON(w, r, results)
}

// Similar handles GET /api/similar
//
// @Summary Content-based similar movies
// @Description Returns the top-k movies whose genre vectors are closest to the given movie. The movie itself is never included.
// @Tags Recommend
// @Produce json
// @Param movie_id query int false "Movie ID" default(1)
// @Param k query int false "Number of results" default(10)
// @Success 200 {array} recommend.ScoredMovie
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /similar [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSimilarRequest(r)
	if err != nil {
		respondParamError(w, r, err)
		return
	}
	if err := validateRequest(&req, req.K, h.maxK()); err != nil {
		respondValidation(w, r, err)
		return
	}

	key := cacheKey("similar", itoa(req.MovieID), itoa(req.K))
	results, err := h.cached("similar", key, func() ([]recommend.ScoredMovie, error) {
		return h.engine.SimilarMovies(req.MovieID, req.K)
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	WriteJSON(w, r, results)
}

// SearchTitle handles GET /api/search_title
//
// @Summary Fuzzy title search
// @Description Returns catalog titles close to q, best first. An empty q returns an empty list.
// @Tags Search
// @Produce json
// @Param q query string false "Title query"
// @Success 200 {array} recommend.MovieRef
// @Failure 503 {object} APIResponse
// @Router /search_title [get]
func (h *Handler) SearchTitle(w http.ResponseWriter, r *http.Request) {
	req := SearchTitleRequest{Q: r.URL.Query().Get("q")}

	refs, err := h.engine.SearchTitle(req.Q)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if refs == nil {
		refs = []recommend.MovieRef{}
	}

	WriteJSON(w, r, refs)
}

// SimilarByTitle handles GET /api/similar_by_title
//
// @Summary Similar movies for a fuzzy title
// @Description Resolves q to its closest catalog title and returns the movies most similar to it. When nothing matches, match is null and results is empty.
// @Tags Search
// @Produce json
// @Param q query string true "Title query"
// @Param k query int false "Number of results" default(10)
// @Success 200 {object} recommend.TitleMatch
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /similar_by_title [get]
func (h *Handler) SimilarByTitle(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSimilarByTitleRequest(r)
	if err != nil {
		respondParamError(w, r, err)
		return
	}
	if req.Q == "" {
		WriteBadRequest(w, r, ErrMissingQuery.Error())
		return
	}
	if err := validateRequest(&req, req.K, h.maxK()); err != nil {
		respondValidation(w, r, err)
		return
	}

	match, err := h.engine.SimilarByTitle(req.Q, req.K)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	if match.Results == nil {
		match.Results = []recommend.ScoredMovie{}
	}

	WriteJSON(w, r, match)
}

// Hybrid handles GET /api/hybrid
//
// @Summary Hybrid recommendations
// @Description Blends a user's CF recommendations with movies similar to a seed movie: alpha*cf + (1-alpha)*content.
// @Tags Recommend
// @Produce json
// @Param user_id query int false "User ID" default(1)
// @Param movie_id query int false "Seed movie ID" default(1)
// @Param k query int false "Number of results" default(10)
// @Param alpha query number false "CF weight in [0,1]"
// @Success 200 {array} recommend.ScoredMovie
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /hybrid [get]
func (h *Handler) Hybrid(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseHybridRequest(r)
	if err != nil {
		respondParamError(w, r, err)
		return
	}
	if err := validateRequest(&req, req.K, h.maxK()); err != nil {
		respondValidation(w, r, err)
		return
	}

	key := cacheKey("hybrid", itoa(req.UserID), itoa(req.MovieID), itoa(req.K),
		strconv.FormatFloat(req.Alpha, 'g', -1, 64))
	results, err := h.cached("hybrid", key, func() ([]recommend.ScoredMovie, error) {
		return h.engine.Hybrid(req.UserID, req.MovieID, req.K, req.Alpha)
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	WriteJSON(w, r, results)
}

// Retrain handles POST /api/admin/retrain
//
// @Summary Rebuild models
// @Description Retrains both models from the dataset already in memory, persists them and swaps them in. Cached responses are dropped.
// @Tags Admin
// @Produce json
// @Success 200 {object} recommend.Status
// @Failure 503 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /admin/retrain [post]
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	logger := logging.Ctx(r.Context())
	start := time.Now()

	if err := h.engine.Rebuild(r.Context()); err != nil {
		if errors.Is(err, recommend.ErrNotReady) {
			NewResponseWriter(w, r).ServiceUnavailable("No dataset loaded yet")
			return
		}
		metrics.RetrainErrors.Inc()
		logger.Error().Err(err).Msg("Retrain failed")
		NewResponseWriter(w, r).InternalError("Retrain failed")
		return
	}

	status := h.engine.Status()
	logger.Info().
		Int64("version", status.Version).
		Dur("duration", time.Since(start)).
		Msg("Models retrained on request")
	WriteJSON(w, r, status)
}
