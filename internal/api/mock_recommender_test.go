// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/recommend"
)

// mockRecommender is a Recommender with canned answers and call counters.
type mockRecommender struct {
	ready bool
	err   error

	recs    []recommend.ScoredMovie
	similar []recommend.ScoredMovie
	hybrid  []recommend.ScoredMovie
	search  []recommend.MovieRef
	match   recommend.TitleMatch

	rebuildErr error

	// duringRecs runs inside RecommendForUser before it returns.
	duringRecs func()

	recsCalls    atomic.Int32
	hybridCalls  atomic.Int32
	rebuildCalls atomic.Int32

	mu       sync.Mutex
	lastArgs []interface{}
	hooks    []func()
}

func newMockRecommender() *mockRecommender {
	return &mockRecommender{
		ready: true,
		recs: []recommend.ScoredMovie{
			{MovieID: 30, Title: "Heat (1995)", Score: 4.5},
			{MovieID: 40, Title: "40", Score: 3.25},
		},
		similar: []recommend.ScoredMovie{
			{MovieID: 2, Title: "Jumanji (1995)", Score: 0.81},
		},
		hybrid: []recommend.ScoredMovie{
			{MovieID: 30, Title: "Heat (1995)", Score: 3.15},
		},
		search: []recommend.MovieRef{
			{MovieID: 1, Title: "Toy Story (1995)"},
		},
		match: recommend.TitleMatch{
			Match:   &recommend.MovieRef{MovieID: 1, Title: "Toy Story (1995)"},
			Results: []recommend.ScoredMovie{{MovieID: 2, Title: "Jumanji (1995)", Score: 0.81}},
		},
	}
}

func (m *mockRecommender) record(args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastArgs = args
}

func (m *mockRecommender) args() []interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastArgs
}

func (m *mockRecommender) Ready() bool { return m.ready }

func (m *mockRecommender) Status() recommend.Status {
	if !m.ready {
		return recommend.Status{}
	}
	return recommend.Status{
		Ready:     true,
		Version:   int64(1 + m.rebuildCalls.Load()),
		TrainedAt: time.Unix(1700000000, 0).UTC(),
		Users:     2,
		Movies:    6,
		Ratings:   4,
		Neighbors: 1,
	}
}

func (m *mockRecommender) RecommendForUser(userID, k int) ([]recommend.ScoredMovie, error) {
	m.recsCalls.Add(1)
	m.record(userID, k)
	if m.err != nil {
		return nil, m.err
	}
	recs := m.recs
	if m.duringRecs != nil {
		m.duringRecs()
	}
	return recs, nil
}

func (m *mockRecommender) SimilarMovies(movieID, k int) ([]recommend.ScoredMovie, error) {
	m.record(movieID, k)
	if m.err != nil {
		return nil, m.err
	}
	return m.similar, nil
}

func (m *mockRecommender) Hybrid(userID, movieID, k int, alpha float64) ([]recommend.ScoredMovie, error) {
	m.hybridCalls.Add(1)
	m.record(userID, movieID, k, alpha)
	if m.err != nil {
		return nil, m.err
	}
	return m.hybrid, nil
}

func (m *mockRecommender) SearchTitle(query string) ([]recommend.MovieRef, error) {
	m.record(query)
	if m.err != nil {
		return nil, m.err
	}
	if query == "" {
		return []recommend.MovieRef{}, nil
	}
	return m.search, nil
}

func (m *mockRecommender) SimilarByTitle(query string, k int) (recommend.TitleMatch, error) {
	m.record(query, k)
	if m.err != nil {
		return recommend.TitleMatch{}, m.err
	}
	return m.match, nil
}

func (m *mockRecommender) Rebuild(context.Context) error {
	m.rebuildCalls.Add(1)
	if m.rebuildErr != nil {
		return m.rebuildErr
	}
	m.swap()
	return nil
}

// swap runs the registered OnSwap hooks as an installed snapshot would.
func (m *mockRecommender) swap() {
	m.mu.Lock()
	hooks := append([]func(){}, m.hooks...)
	m.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func (m *mockRecommender) OnSwap(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// testConfig returns defaults with rate limiting off.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Security.RateLimitDisabled = true
	return cfg
}
