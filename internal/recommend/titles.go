// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/tomtom215/movierec/internal/dataset"
)

// Fuzzy matching defaults.
const (
	DefaultSearchLimit  = 8
	DefaultSearchCutoff = 0.6
	DefaultMatchCutoff  = 0.5
)

var yearSuffix = regexp.MustCompile(`\s*\(\d{4}\)$`)

// NormalizeTitle strips a trailing "(YYYY)" year, trims and lowercases.
//
//	NormalizeTitle("Toy Story (1995)") == "toy story"
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(yearSuffix.ReplaceAllString(title, "")))
}

// TitleResolver maps free-text queries onto catalog movies.
type TitleResolver struct {
	normByID   map[int]string
	idByNorm   map[string]int
	population []string
	display    map[int]string
}

// NewTitleResolver indexes a movies table. A repeated movie id keeps its last
// title. When several movies share a normalized title, the one whose id
// appears first owns it.
func NewTitleResolver(movies []dataset.Movie) *TitleResolver {
	r := &TitleResolver{
		normByID: make(map[int]string, len(movies)),
		idByNorm: make(map[string]int, len(movies)),
		display:  make(map[int]string, len(movies)),
	}

	order := make([]int, 0, len(movies))
	for _, mv := range movies {
		if _, ok := r.display[mv.MovieID]; !ok {
			order = append(order, mv.MovieID)
		}
		r.display[mv.MovieID] = mv.Title
	}

	for _, id := range order {
		norm := NormalizeTitle(r.display[id])
		r.normByID[id] = norm
		if norm == "" {
			continue
		}
		if _, ok := r.idByNorm[norm]; !ok {
			r.idByNorm[norm] = id
			r.population = append(r.population, norm)
		}
	}
	sort.Strings(r.population)
	return r
}

// Len returns the number of distinct non-empty normalized titles.
func (r *TitleResolver) Len() int { return len(r.population) }

// Titles returns the display title map. Callers must not modify it.
func (r *TitleResolver) Titles() map[int]string { return r.display }

// Title returns the display title for movieID, or its decimal id.
func (r *TitleResolver) Title(movieID int) string {
	return displayTitle(r.display, movieID)
}

// Normalized returns the normalized title of movieID.
func (r *TitleResolver) Normalized(movieID int) (string, bool) {
	norm, ok := r.normByID[movieID]
	return norm, ok
}

// SearchTitle returns up to n movies whose normalized title is at least
// cutoff similar to query, best first. An empty query matches nothing.
func (r *TitleResolver) SearchTitle(query string, n int, cutoff float64) []MovieRef {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []MovieRef{}
	}
	if n <= 0 {
		n = DefaultSearchLimit
	}

	matches := GetCloseMatches(q, r.population, n, cutoff)
	out := make([]MovieRef, 0, len(matches))
	for _, norm := range matches {
		if id, ok := r.idByNorm[norm]; ok {
			out = append(out, MovieRef{MovieID: id, Title: r.Title(id)})
		}
	}
	return out
}

// BestMatch returns the single closest movie to query.
func (r *TitleResolver) BestMatch(query string, cutoff float64) (MovieRef, bool) {
	refs := r.SearchTitle(query, 1, cutoff)
	if len(refs) == 0 {
		return MovieRef{}, false
	}
	return refs[0], true
}

// GetCloseMatches returns up to n of possibilities whose similarity ratio to
// word is at least cutoff, best first. Ratios come from difflib sequence
// matching over runes; equal ratios order by the larger string first.
func GetCloseMatches(word string, possibilities []string, n int, cutoff float64) []string {
	if n <= 0 {
		return []string{}
	}

	type match struct {
		ratio float64
		s     string
	}

	m := difflib.NewMatcher(nil, runeSeq(word))
	var found []match
	for _, p := range possibilities {
		m.SetSeq1(runeSeq(p))
		if m.RealQuickRatio() >= cutoff && m.QuickRatio() >= cutoff {
			if ratio := m.Ratio(); ratio >= cutoff {
				found = append(found, match{ratio: ratio, s: p})
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].ratio != found[j].ratio {
			return found[i].ratio > found[j].ratio
		}
		return found[i].s > found[j].s
	})
	if len(found) > n {
		found = found[:n]
	}

	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.s
	}
	return out
}

func runeSeq(s string) []string {
	rs := []rune(s)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}
