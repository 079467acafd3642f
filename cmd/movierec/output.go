// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/movierec/internal/recommend"
)

// queryResult is the --json shape of a root query.
type queryResult struct {
	CF      []recommend.ScoredMovie `json:"cf,omitempty"`
	Content []recommend.ScoredMovie `json:"content,omitempty"`
}

// printScored writes a header line followed by one "title\tscore" line per movie.
func printScored(w io.Writer, header string, movies []recommend.ScoredMovie) {
	fmt.Fprintf(w, "\n%s\n", header)
	for _, m := range movies {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Title, m.Score)
	}
}

func printRefs(w io.Writer, refs []recommend.MovieRef) {
	for _, r := range refs {
		fmt.Fprintf(w, "%d\t%s\n", r.MovieID, r.Title)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
