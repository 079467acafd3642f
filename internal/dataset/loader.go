// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

// Loader locates, fetches and parses the dataset.
type Loader struct {
	Dir          string
	URL          string
	AutoDownload bool

	// Source defaults to CSVSource.
	Source Source

	Downloader Downloader
}

// Paths returns the ratings and movies file paths.
func (l *Loader) Paths() (ratings, movies string) {
	return filepath.Join(l.Dir, RatingsFile), filepath.Join(l.Dir, MoviesFile)
}

// Ensure makes sure both tables exist, downloading the archive when either is
// missing. With AutoDownload off a missing table is an error.
func (l *Loader) Ensure(ctx context.Context) error {
	ratings, movies := l.Paths()
	if exists(ratings) && exists(movies) {
		return nil
	}
	if !l.AutoDownload {
		return fmt.Errorf("dataset not found in %s and auto download is disabled: %w", l.Dir, os.ErrNotExist)
	}
	if l.URL == "" {
		return errors.New("dataset not found and no download URL configured")
	}
	return l.Downloader.Download(ctx, l.URL, l.Dir)
}

// Load ensures the tables exist and parses them.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	if err := l.Ensure(ctx); err != nil {
		return nil, err
	}

	src := l.Source
	if src == nil {
		src = CSVSource{}
	}

	start := time.Now()
	ratingsPath, moviesPath := l.Paths()

	ratings, err := src.ReadRatings(ctx, ratingsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	movies, err := src.ReadMovies(ctx, moviesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}

	metrics.SetDatasetRows(len(ratings), len(movies))
	logging.Info().
		Int("ratings", len(ratings)).
		Int("movies", len(movies)).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	return &Dataset{Ratings: ratings, Movies: movies}, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
