// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// rowReader yields records after the header. It returns io.EOF when done.
type rowReader func() ([]string, error)

// columnIndex maps lowercased header names to positions.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		// Strip a UTF-8 BOM some exports put before the first column.
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		idx[strings.ToLower(h)] = i
	}
	return idx
}

func (c columnIndex) require(table string, names ...string) error {
	for _, n := range names {
		if _, ok := c[strings.ToLower(n)]; !ok {
			return fmt.Errorf("%s: %w %q", table, ErrMissingColumn, n)
		}
	}
	return nil
}

// get returns the cell for column name, or "" when the column is absent or
// the record is short.
func (c columnIndex) get(rec []string, name string) string {
	i, ok := c[strings.ToLower(name)]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// checkEvery is how many rows are parsed between context checks.
const checkEvery = 4096

func parseRatings(ctx context.Context, header []string, next rowReader) ([]Rating, error) {
	cols := newColumnIndex(header)
	if err := cols.require(RatingsFile, "userId", "movieId", "rating"); err != nil {
		return nil, err
	}

	var out []Rating
	for line := 2; ; line++ {
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", RatingsFile, line, err)
		}

		var r Rating
		if r.UserID, err = strconv.Atoi(cols.get(rec, "userId")); err != nil {
			return nil, fmt.Errorf("%s line %d: invalid userId: %w", RatingsFile, line, err)
		}
		if r.MovieID, err = strconv.Atoi(cols.get(rec, "movieId")); err != nil {
			return nil, fmt.Errorf("%s line %d: invalid movieId: %w", RatingsFile, line, err)
		}
		if r.Rating, err = strconv.ParseFloat(cols.get(rec, "rating"), 64); err != nil {
			return nil, fmt.Errorf("%s line %d: invalid rating: %w", RatingsFile, line, err)
		}
		if ts := cols.get(rec, "timestamp"); ts != "" {
			if r.Timestamp, err = strconv.ParseInt(ts, 10, 64); err != nil {
				return nil, fmt.Errorf("%s line %d: invalid timestamp: %w", RatingsFile, line, err)
			}
		}
		out = append(out, r)
	}
}

func parseMovies(ctx context.Context, header []string, next rowReader) ([]Movie, error) {
	cols := newColumnIndex(header)
	if err := cols.require(MoviesFile, "movieId", "title"); err != nil {
		return nil, err
	}

	var out []Movie
	for line := 2; ; line++ {
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", MoviesFile, line, err)
		}

		id, err := strconv.Atoi(cols.get(rec, "movieId"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid movieId: %w", MoviesFile, line, err)
		}
		out = append(out, Movie{
			MovieID: id,
			Title:   cols.get(rec, "title"),
			Genres:  cols.get(rec, "genres"),
		})
	}
}
