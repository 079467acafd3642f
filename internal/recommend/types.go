// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"errors"
	"strconv"
)

// ErrNotReady is returned by Engine queries before the first snapshot exists.
var ErrNotReady = errors.New("recommendation models not ready")

// Scored is a movie id with a model score.
type Scored struct {
	MovieID int
	Score   float64
}

// MovieRef identifies a catalog movie by id and display title.
type MovieRef struct {
	MovieID int    `json:"movieId"`
	Title   string `json:"title"`
}

// ScoredMovie is a Scored result with its display title attached.
type ScoredMovie struct {
	MovieID int     `json:"movieId"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// TitleMatch is the result of a similar-by-title query. Match is nil when no
// catalog title was close enough to the query.
type TitleMatch struct {
	Match   *MovieRef     `json:"match"`
	Results []ScoredMovie `json:"results"`
}

// MovieIDs returns the ids of a scored list in order.
func MovieIDs(list []Scored) []int {
	out := make([]int, len(list))
	for i, s := range list {
		out[i] = s.MovieID
	}
	return out
}

// displayTitle falls back to the decimal id when a title is unknown.
func displayTitle(titles map[int]string, movieID int) string {
	if t, ok := titles[movieID]; ok {
		return t
	}
	return strconv.Itoa(movieID)
}

// withTitles attaches display titles to a scored list.
func withTitles(list []Scored, titles map[int]string) []ScoredMovie {
	out := make([]ScoredMovie, len(list))
	for i, s := range list {
		out[i] = ScoredMovie{MovieID: s.MovieID, Title: displayTitle(titles, s.MovieID), Score: s.Score}
	}
	return out
}
