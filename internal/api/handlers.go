// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/movierec/internal/cache"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/recommend"
)

// Recommender is the engine surface the handlers depend on.
// *recommend.Engine satisfies it.
type Recommender interface {
	Ready() bool
	Status() recommend.Status
	RecommendForUser(userID, k int) ([]recommend.ScoredMovie, error)
	SimilarMovies(movieID, k int) ([]recommend.ScoredMovie, error)
	Hybrid(userID, movieID, k int, alpha float64) ([]recommend.ScoredMovie, error)
	SearchTitle(query string) ([]recommend.MovieRef, error)
	SimilarByTitle(query string, k int) (recommend.TitleMatch, error)
	Rebuild(ctx context.Context) error
	OnSwap(fn func())
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, cache plumbing (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health endpoints
//   - handlers_recommend.go: Recommendation, search and admin endpoints
type Handler struct {
	engine    Recommender
	config    *config.Config
	startTime time.Time

	// cache is nil when response caching is disabled.
	cache *cache.LRU[[]recommend.ScoredMovie]

	// gen counts snapshot swaps. A result computed across a swap is not stored.
	genMu sync.Mutex
	gen   uint64
}

// NewHandler creates a new API handler.
//
// The handler registers itself with the engine so the response cache is
// cleared whenever a retrain installs a new snapshot.
//
// Example:
//
//	handler := api.NewHandler(engine, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg))
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(engine Recommender, cfg *config.Config) *Handler {
	if cfg == nil {
		cfg = config.Default()
	}

	h := &Handler{
		engine:    engine,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.Cache.Enabled {
		h.cache = cache.NewLRU[[]recommend.ScoredMovie](cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	engine.OnSwap(h.ClearCache)
	return h
}

// Cache returns the response cache, or nil when caching is disabled.
func (h *Handler) Cache() *cache.LRU[[]recommend.ScoredMovie] {
	return h.cache
}

// ClearCache invalidates all cached responses.
//
// Thread Safety: Safe for concurrent access.
func (h *Handler) ClearCache() {
	if h.cache == nil {
		return
	}
	h.genMu.Lock()
	h.gen++
	h.cache.Clear()
	h.genMu.Unlock()
	metrics.ResponseCacheEntries.Set(0)
	logging.Debug().Str("component", "api").Msg("Response cache cleared")
}

func (h *Handler) defaultK() int { return h.config.Recommend.DefaultK }

func (h *Handler) maxK() int { return h.config.Recommend.MaxK }

// cached returns the cached list for key, computing and storing it on a miss.
// Errors are never cached, nor are results computed while a swap cleared the
// cache.
func (h *Handler) cached(kind, key string, compute func() ([]recommend.ScoredMovie, error)) ([]recommend.ScoredMovie, error) {
	if h.cache == nil {
		return compute()
	}

	if v, ok := h.cache.Get(key); ok {
		metrics.RecordCacheLookup(kind, true)
		return v, nil
	}
	metrics.RecordCacheLookup(kind, false)

	h.genMu.Lock()
	gen := h.gen
	h.genMu.Unlock()

	v, err := compute()
	if err != nil {
		return nil, err
	}

	h.genMu.Lock()
	defer h.genMu.Unlock()
	if h.gen != gen {
		return v, nil
	}
	h.cache.Add(key, v)
	metrics.ResponseCacheEntries.Set(float64(h.cache.Len()))
	return v, nil
}

// cacheKey joins an endpoint name and its parameters, e.g. "recs:1:10".
func cacheKey(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

func itoa(v int) string { return strconv.Itoa(v) }
