// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/metrics"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// Blob names used in the model store.
const (
	CFModelName      = "cf"
	ContentModelName = "content"
)

// DatasetLoader supplies the tables models are trained from.
type DatasetLoader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// snapshot is one immutable generation of trained models.
type snapshot struct {
	cf      *CFModel
	content *ContentModel
	titles  *TitleResolver
	ds      *dataset.Dataset

	version   int64
	trainedAt time.Time
}

// Status describes the served snapshot.
type Status struct {
	Ready     bool      `json:"ready"`
	Version   int64     `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	Users     int       `json:"users"`
	Movies    int       `json:"movies"`
	Ratings   int       `json:"ratings"`
	Neighbors int       `json:"neighbors"`
}

// Engine serves queries from the current model snapshot. It is safe for
// concurrent use: queries read one snapshot while retrains build the next
// and swap it in atomically.
type Engine struct {
	config *Config
	logger zerolog.Logger

	loader DatasetLoader
	store  storage.BlobStore

	current atomic.Pointer[snapshot]
	version atomic.Int64

	// trainMu serializes Boot and retrains.
	trainMu sync.Mutex

	hookMu sync.RWMutex
	onSwap []func()
}

// NewEngine creates an engine. store may be nil, in which case models are
// always trained and never persisted.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, loader DatasetLoader, store storage.BlobStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if loader == nil {
		return nil, errors.New("dataset loader is required")
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		loader: loader,
		store:  store,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config { return e.config.Clone() }

// OnSwap registers fn to run after every snapshot swap.
func (e *Engine) OnSwap(fn func()) {
	e.hookMu.Lock()
	defer e.hookMu.Unlock()
	e.onSwap = append(e.onSwap, fn)
}

// Boot loads the dataset and installs the first snapshot. Each model is
// restored from the store when possible, otherwise trained and saved.
func (e *Engine) Boot(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	ds, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	snap, err := e.build(ctx, ds, !e.config.RetrainOnStart)
	if err != nil {
		return err
	}
	e.swap(snap)
	return nil
}

// Retrain reloads the dataset, trains both models, saves them and swaps
// them in. The previous snapshot keeps serving if any step fails.
func (e *Engine) Retrain(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	ds, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	return e.retrainLocked(ctx, ds)
}

// Rebuild retrains from the dataset already in memory.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	snap := e.current.Load()
	if snap == nil {
		return ErrNotReady
	}
	return e.retrainLocked(ctx, snap.ds)
}

func (e *Engine) retrainLocked(ctx context.Context, ds *dataset.Dataset) error {
	snap, err := e.build(ctx, ds, false)
	if err != nil {
		return err
	}
	e.swap(snap)
	return nil
}

func (e *Engine) swap(snap *snapshot) {
	snap.version = e.version.Add(1)
	e.current.Store(snap)

	e.logger.Info().
		Int64("version", snap.version).
		Int("users", snap.cf.NumUsers()).
		Int("movies", snap.content.NumMovies()).
		Int("ratings", snap.cf.NumRatings()).
		Msg("Model snapshot installed")

	e.hookMu.RLock()
	hooks := append([]func(){}, e.onSwap...)
	e.hookMu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (e *Engine) build(ctx context.Context, ds *dataset.Dataset, useStore bool) (*snapshot, error) {
	snap := &snapshot{ds: ds, trainedAt: time.Now()}

	cf := &CFModel{}
	if !useStore || !e.restore(ctx, CFModelName, cf) {
		start := time.Now()
		built, err := BuildCF(ctx, ds.Ratings, CFConfig{Neighbors: e.config.Neighbors})
		if err != nil {
			return nil, fmt.Errorf("failed to train cf model: %w", err)
		}
		cf = built
		e.trained(ctx, CFModelName, cf, ds, time.Since(start))
	}
	snap.cf = cf

	content := &ContentModel{}
	if !useStore || !e.restore(ctx, ContentModelName, content) {
		start := time.Now()
		built, err := BuildContent(ctx, ds.Movies)
		if err != nil {
			return nil, fmt.Errorf("failed to train content model: %w", err)
		}
		content = built
		e.trained(ctx, ContentModelName, content, ds, time.Since(start))
	}
	snap.content = content

	snap.titles = NewTitleResolver(ds.Movies)
	return snap, nil
}

// restore decodes name from the store into m. A missing blob is expected on
// first boot; a corrupt one is logged. Both return false so the caller
// trains instead.
func (e *Engine) restore(ctx context.Context, name string, m encoding.BinaryUnmarshaler) bool {
	if e.store == nil {
		return false
	}

	blob, meta, err := e.store.Load(ctx, name)
	if err == nil {
		err = m.UnmarshalBinary(blob)
	}
	switch {
	case err == nil:
		metrics.RecordModelLoad(name)
		e.logger.Info().
			Str("model", name).
			Int("version", meta.Version).
			Time("trained_at", meta.TrainedAt).
			Msg("Model loaded from store")
		return true
	case errors.Is(err, storage.ErrModelNotFound):
		e.logger.Info().Str("model", name).Msg("No stored model, training")
	default:
		metrics.RecordModelCorrupt(name)
		e.logger.Warn().Err(err).Str("model", name).Msg("Stored model unusable, retraining")
	}
	return false
}

// trained records a fresh model and persists it. A save failure is logged;
// the model still serves.
func (e *Engine) trained(ctx context.Context, name string, m encoding.BinaryMarshaler, ds *dataset.Dataset, took time.Duration) {
	metrics.RecordModelTrain(name, took)
	e.logger.Info().Str("model", name).Dur("took", took).Msg("Model trained")

	if e.store == nil {
		return
	}
	blob, err := m.MarshalBinary()
	if err == nil {
		err = e.store.Save(ctx, name, blob, storage.Metadata{
			TrainedAt:          time.Now(),
			Users:              countUsers(ds.Ratings),
			Movies:             len(ds.Movies),
			Ratings:            len(ds.Ratings),
			TrainingDurationMS: took.Milliseconds(),
		})
	}
	if err != nil {
		e.logger.Error().Err(err).Str("model", name).Msg("Failed to persist model")
	}
}

func countUsers(ratings []dataset.Rating) int {
	seen := make(map[int]struct{})
	for _, r := range ratings {
		seen[r.UserID] = struct{}{}
	}
	return len(seen)
}

func (e *Engine) live() (*snapshot, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// Ready reports whether a snapshot is installed.
func (e *Engine) Ready() bool { return e.current.Load() != nil }

// Status describes the served snapshot.
func (e *Engine) Status() Status {
	snap := e.current.Load()
	if snap == nil {
		return Status{}
	}
	return Status{
		Ready:     true,
		Version:   snap.version,
		TrainedAt: snap.trainedAt,
		Users:     snap.cf.NumUsers(),
		Movies:    snap.content.NumMovies(),
		Ratings:   snap.cf.NumRatings(),
		Neighbors: snap.cf.Neighbors(),
	}
}

// Title returns the display title for movieID, or its decimal id.
func (e *Engine) Title(movieID int) string {
	snap := e.current.Load()
	if snap == nil {
		return displayTitle(nil, movieID)
	}
	return snap.titles.Title(movieID)
}

// RecommendForUser returns CF recommendations for userID, excluding movies
// the user has rated.
func (e *Engine) RecommendForUser(userID, k int) ([]ScoredMovie, error) {
	snap, err := e.live()
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendations("recs")
	return withTitles(snap.cf.RecommendForUser(userID, k, true), snap.titles.Titles()), nil
}

// SimilarMovies returns the movies whose genres are closest to movieID's.
func (e *Engine) SimilarMovies(movieID, k int) ([]ScoredMovie, error) {
	snap, err := e.live()
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendations("similar")
	return withTitles(snap.content.SimilarMovies(movieID, k), snap.titles.Titles()), nil
}

// Hybrid blends userID's CF recommendations with movies similar to movieID.
func (e *Engine) Hybrid(userID, movieID, k int, alpha float64) ([]ScoredMovie, error) {
	snap, err := e.live()
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendations("hybrid")
	blended := Blend(
		snap.cf.RecommendForUser(userID, k, true),
		snap.content.SimilarMovies(movieID, k),
		alpha, k,
	)
	return withTitles(blended, snap.titles.Titles()), nil
}

// SearchTitle fuzzy-matches query against catalog titles.
func (e *Engine) SearchTitle(query string) ([]MovieRef, error) {
	snap, err := e.live()
	if err != nil {
		return nil, err
	}
	metrics.RecordRecommendations("search")
	return snap.titles.SearchTitle(query, e.config.SearchLimit, e.config.SearchCutoff), nil
}

// SimilarByTitle resolves query to its single closest title and returns the
// movies most similar to it. Match is nil when nothing is close enough.
func (e *Engine) SimilarByTitle(query string, k int) (TitleMatch, error) {
	snap, err := e.live()
	if err != nil {
		return TitleMatch{}, err
	}
	metrics.RecordRecommendations("similar_by_title")

	ref, ok := snap.titles.BestMatch(query, e.config.MatchCutoff)
	if !ok {
		return TitleMatch{Results: []ScoredMovie{}}, nil
	}
	results := withTitles(snap.content.SimilarMovies(ref.MovieID, k), snap.titles.Titles())
	return TitleMatch{Match: &ref, Results: results}, nil
}
