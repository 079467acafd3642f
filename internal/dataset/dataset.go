// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package dataset fetches, caches and parses the MovieLens ratings and movies
// tables.
//
// The loader keeps ratings.csv and movies.csv in a data directory. When either
// file is missing it downloads the MovieLens archive once and extracts just
// those two members:
//
//	l := dataset.Loader{Dir: "data", URL: config.DefaultDatasetURL, AutoDownload: true}
//	ds, err := l.Load(ctx)
package dataset

import (
	"context"
	"errors"
)

// File names inside the data directory.
const (
	RatingsFile = "ratings.csv"
	MoviesFile  = "movies.csv"
)

// ErrMissingColumn is returned when a table lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Rating is one row of ratings.csv.
type Rating struct {
	UserID    int
	MovieID   int
	Rating    float64
	Timestamp int64
}

// Movie is one row of movies.csv. Genres is pipe-delimited.
type Movie struct {
	MovieID int
	Title   string
	Genres  string
}

// Dataset is the pair of tables the models are trained from.
type Dataset struct {
	Ratings []Rating
	Movies  []Movie
}

// Source parses the two tables from files on disk.
type Source interface {
	ReadRatings(ctx context.Context, path string) ([]Rating, error)
	ReadMovies(ctx context.Context, path string) ([]Movie, error)
}

// Titles returns movieId to raw title. A later duplicate id overwrites an
// earlier one.
func (d *Dataset) Titles() map[int]string {
	out := make(map[int]string, len(d.Movies))
	for _, m := range d.Movies {
		out[m.MovieID] = m.Title
	}
	return out
}
