// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/movierec/internal/dataset"
)

// NoGenresListed is the MovieLens placeholder for a movie without genres.
const NoGenresListed = "(no genres listed)"

// ContentModel compares movies by TF-IDF weighted genre vectors.
//
// Row i of x is the L2-normalized vector for movieIDs[i], and sim holds every
// pairwise cosine similarity. A movie with no genres has a zero vector and is
// similar to nothing, itself included.
type ContentModel struct {
	movieIDs []int
	index    map[int]int

	vocab []string
	idf   []float64

	x   *mat.Dense
	sim *mat.SymDense
}

// BuildContent fits the genre vectorizer over movies and computes the
// similarity matrix. Rows follow table order. When a movie id repeats, lookups
// resolve to its last row.
func BuildContent(ctx context.Context, movies []dataset.Movie) (*ContentModel, error) {
	docs := make([][]string, len(movies))
	df := make(map[string]int)
	for i, mv := range movies {
		docs[i] = genreTokens(mv.Genres)
		seen := make(map[string]struct{}, len(docs[i]))
		for _, t := range docs[i] {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				df[t]++
			}
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	n := len(movies)
	idf := make([]float64, len(vocab))
	for j, t := range vocab {
		idf[j] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	movieIDs := make([]int, n)
	for i, mv := range movies {
		movieIDs[i] = mv.MovieID
	}

	var x *mat.Dense
	if n > 0 && len(vocab) > 0 {
		col := make(map[string]int, len(vocab))
		for j, t := range vocab {
			col[t] = j
		}
		x = mat.NewDense(n, len(vocab), nil)
		for i, doc := range docs {
			row := x.RawRowView(i)
			for _, t := range doc {
				row[col[t]]++
			}
			floats.Mul(row, idf)
			if norm := floats.Norm(row, 2); norm > 0 {
				floats.Scale(1/norm, row)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return newContentModel(movieIDs, vocab, idf, x), nil
}

func newContentModel(movieIDs []int, vocab []string, idf []float64, x *mat.Dense) *ContentModel {
	m := &ContentModel{
		movieIDs: movieIDs,
		index:    indexOf(movieIDs),
		vocab:    vocab,
		idf:      idf,
		x:        x,
	}
	switch n := len(movieIDs); {
	case n == 0:
	case x == nil:
		m.sim = mat.NewSymDense(n, nil)
	default:
		var s mat.SymDense
		s.SymOuterK(1, x)
		m.sim = &s
	}
	return m
}

// genreTokens lowercases a genres value and splits it on '|', dropping empty
// runs. The MovieLens placeholder counts as no genres.
func genreTokens(genres string) []string {
	if genres == NoGenresListed {
		return nil
	}
	return strings.FieldsFunc(strings.ToLower(genres), func(r rune) bool { return r == '|' })
}

// NumMovies returns the number of catalog rows.
func (m *ContentModel) NumMovies() int { return len(m.movieIDs) }

// Vocabulary returns the fitted genre terms in column order.
func (m *ContentModel) Vocabulary() []string {
	return append([]string(nil), m.vocab...)
}

// HasMovie reports whether movieID is in the catalog.
func (m *ContentModel) HasMovie(movieID int) bool {
	_, ok := m.index[movieID]
	return ok
}

// Similarity returns the cosine similarity of two catalog movies.
func (m *ContentModel) Similarity(a, b int) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.sim.At(i, j), true
}

// SimilarMovies returns the topK movies most similar to movieID, highest
// first, never including movieID's own row. Ties go to the earlier catalog
// row. topK is clamped to the catalog size minus one.
func (m *ContentModel) SimilarMovies(movieID, topK int) []Scored {
	i, ok := m.index[movieID]
	if !ok || topK <= 0 {
		return []Scored{}
	}
	topK = min(topK, len(m.movieIDs)-1)

	filter := newTopKFilter(topK)
	for j := range m.movieIDs {
		if j == i {
			continue
		}
		filter.Push(j, m.sim.At(i, j))
	}

	best := filter.PopAll()
	out := make([]Scored, len(best))
	for k, c := range best {
		out[k] = Scored{MovieID: m.movieIDs[c.index], Score: c.score}
	}
	return out
}

// contentState is the persisted form. The similarity matrix is derived from X
// on load instead of being stored, since it grows with the square of the
// catalog.
type contentState struct {
	MovieIDs []int
	Vocab    []string
	IDF      []float64
	X        []float64
}

// MarshalBinary encodes the fitted vectors as an opaque gob blob.
func (m *ContentModel) MarshalBinary() ([]byte, error) {
	st := contentState{MovieIDs: m.movieIDs, Vocab: m.vocab, IDF: m.idf}
	if m.x != nil {
		st.X = m.x.RawMatrix().Data
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("encode content model: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a blob written by MarshalBinary and recomputes the
// similarity matrix.
func (m *ContentModel) UnmarshalBinary(blob []byte) error {
	var st contentState
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&st); err != nil {
		return fmt.Errorf("decode content model: %w", err)
	}

	n, d := len(st.MovieIDs), len(st.Vocab)
	if len(st.IDF) != d {
		return fmt.Errorf("decode content model: %d idf weights for %d terms", len(st.IDF), d)
	}

	var x *mat.Dense
	switch {
	case n > 0 && d > 0:
		if len(st.X) != n*d {
			return fmt.Errorf("decode content model: %d values for a %dx%d matrix", len(st.X), n, d)
		}
		x = mat.NewDense(n, d, st.X)
	case len(st.X) != 0:
		return fmt.Errorf("decode content model: %d values for an empty matrix", len(st.X))
	}

	*m = *newContentModel(st.MovieIDs, st.Vocab, st.IDF, x)
	return nil
}
