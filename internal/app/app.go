// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package app assembles Movierec's components from a loaded configuration.
// Both the server binary and the CLI build through it so they wire the
// dataset loader, model store and engine identically.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/recommend/storage"
)

// Options tunes assembly for the calling binary.
type Options struct {
	// Progress receives the download progress bar. Nil disables it.
	Progress io.Writer

	// Ephemeral skips the model store: models are trained and never saved.
	Ephemeral bool
}

// App holds the assembled components.
type App struct {
	Config *config.Config
	Loader *dataset.Loader
	Store  storage.BlobStore
	Engine *recommend.Engine
}

// New builds the loader, store and engine. The engine is not booted.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	loader, err := NewLoader(cfg, opts.Progress)
	if err != nil {
		return nil, err
	}

	var store storage.BlobStore
	if !opts.Ephemeral {
		store, err = storage.Open(cfg.Models.Backend, cfg.Models.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open model store: %w", err)
		}
	}

	engine, err := recommend.NewEngine(EngineConfig(cfg), loader, store, logging.Logger())
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &App{
		Config: cfg,
		Loader: loader,
		Store:  store,
		Engine: engine,
	}, nil
}

// NewLoader builds the dataset loader described by cfg.Data.
func NewLoader(cfg *config.Config, progress io.Writer) (*dataset.Loader, error) {
	src, err := dataset.NewSource(cfg.Data.Source)
	if err != nil {
		return nil, err
	}
	return &dataset.Loader{
		Dir:          cfg.Data.Dir,
		URL:          cfg.Data.URL,
		AutoDownload: cfg.Data.AutoDownload,
		Source:       src,
		Downloader:   dataset.Downloader{Progress: progress},
	}, nil
}

// EngineConfig maps the recommend and models sections onto recommend.Config.
func EngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		Neighbors:      cfg.Recommend.Neighbors,
		DefaultK:       cfg.Recommend.DefaultK,
		MaxK:           cfg.Recommend.MaxK,
		Alpha:          cfg.Recommend.Alpha,
		SearchLimit:    cfg.Recommend.SearchLimit,
		SearchCutoff:   cfg.Recommend.SearchCutoff,
		MatchCutoff:    cfg.Recommend.MatchCutoff,
		RetrainOnStart: cfg.Models.RetrainOnStart,
	}
}

// Boot loads the dataset and installs the first model snapshot.
func (a *App) Boot(ctx context.Context) error {
	if err := a.Engine.Boot(ctx); err != nil {
		return fmt.Errorf("failed to boot engine: %w", err)
	}
	return nil
}

// Close releases the model store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	if err := a.Store.Close(); err != nil {
		return fmt.Errorf("failed to close model store: %w", err)
	}
	return nil
}
