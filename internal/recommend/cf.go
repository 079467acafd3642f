// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/movierec/internal/dataset"
)

// weightEpsilon keeps the neighbor-weighted average finite when every
// neighbor weight is zero.
const weightEpsilon = 1e-8

// CFConfig configures the collaborative filtering model.
type CFConfig struct {
	// Neighbors is the number of nearest users averaged per query. It is
	// clamped to the number of other users at build time.
	Neighbors int
}

// DefaultCFConfig returns the default CF configuration.
func DefaultCFConfig() CFConfig {
	return CFConfig{Neighbors: 30}
}

// CFModel is a user-based KNN model over a sparse user x movie rating matrix.
//
// Rows are users and columns are movies, both in ascending id order. The
// matrix is stored in CSR form: row u owns indices[indptr[u]:indptr[u+1]]
// (sorted column numbers) and the matching data values.
type CFModel struct {
	userIDs   []int
	movieIDs  []int
	userIndex map[int]int

	indptr  []int
	indices []int
	data    []float64
	norms   []float64

	k int
}

// BuildCF builds a CF model from a ratings table. A later rating for the same
// (user, movie) pair replaces an earlier one. The only error is ctx
// cancellation.
func BuildCF(ctx context.Context, ratings []dataset.Rating, cfg CFConfig) (*CFModel, error) {
	userIDs := distinctSorted(ratings, func(r dataset.Rating) int { return r.UserID })
	movieIDs := distinctSorted(ratings, func(r dataset.Rating) int { return r.MovieID })
	userIndex := indexOf(userIDs)
	movieIndex := indexOf(movieIDs)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]map[int]float64, len(userIDs))
	for _, r := range ratings {
		u := userIndex[r.UserID]
		if rows[u] == nil {
			rows[u] = make(map[int]float64)
		}
		rows[u][movieIndex[r.MovieID]] = r.Rating
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &CFModel{
		userIDs:   userIDs,
		movieIDs:  movieIDs,
		userIndex: userIndex,
		indptr:    make([]int, len(userIDs)+1),
		norms:     make([]float64, len(userIDs)),
	}
	for u, row := range rows {
		cols := make([]int, 0, len(row))
		for c := range row {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			m.indices = append(m.indices, c)
			m.data = append(m.data, row[c])
		}
		m.indptr[u+1] = len(m.indices)
	}
	m.computeNorms()
	m.k = clampNeighbors(cfg.Neighbors, len(userIDs))

	return m, nil
}

func distinctSorted(ratings []dataset.Rating, key func(dataset.Rating) int) []int {
	seen := make(map[int]struct{})
	for _, r := range ratings {
		seen[key(r)] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func indexOf(ids []int) map[int]int {
	idx := make(map[int]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

func clampNeighbors(k, users int) int {
	if k > users-1 {
		k = users - 1
	}
	if k < 0 {
		k = 0
	}
	return k
}

func (m *CFModel) computeNorms() {
	m.norms = make([]float64, len(m.userIDs))
	for u := range m.userIDs {
		if row := m.data[m.indptr[u]:m.indptr[u+1]]; len(row) > 0 {
			m.norms[u] = floats.Norm(row, 2)
		}
	}
}

// NumUsers returns the number of distinct users.
func (m *CFModel) NumUsers() int { return len(m.userIDs) }

// NumMovies returns the number of distinct rated movies.
func (m *CFModel) NumMovies() int { return len(m.movieIDs) }

// NumRatings returns the number of stored matrix entries.
func (m *CFModel) NumRatings() int { return len(m.data) }

// Neighbors returns the clamped neighbor count.
func (m *CFModel) Neighbors() int { return m.k }

// HasUser reports whether userID has at least one rating in the model.
func (m *CFModel) HasUser(userID int) bool {
	_, ok := m.userIndex[userID]
	return ok
}

// RecommendForUser scores every movie for userID from its k nearest users and
// returns the topK best, highest first. Ties go to the lower movie id. An
// unknown user or topK <= 0 yields an empty list.
//
// With excludeSeen set, movies the user rated are not candidates at all, so
// they never appear even when topK exceeds the number of unseen movies.
func (m *CFModel) RecommendForUser(userID, topK int, excludeSeen bool) []Scored {
	u, ok := m.userIndex[userID]
	if !ok || topK <= 0 {
		return []Scored{}
	}

	neighbors, weights := m.nearest(u)

	scores := make([]float64, len(m.movieIDs))
	for i, v := range neighbors {
		w := weights[i]
		for j := m.indptr[v]; j < m.indptr[v+1]; j++ {
			scores[m.indices[j]] += w * m.data[j]
		}
	}
	floats.Scale(1/(floats.Sum(weights)+weightEpsilon), scores)

	var seen []bool
	if excludeSeen {
		seen = make([]bool, len(m.movieIDs))
		for j := m.indptr[u]; j < m.indptr[u+1]; j++ {
			seen[m.indices[j]] = true
		}
	}

	filter := newTopKFilter(topK)
	for col, s := range scores {
		if seen != nil && seen[col] {
			continue
		}
		filter.Push(col, s)
	}

	best := filter.PopAll()
	out := make([]Scored, len(best))
	for i, c := range best {
		out[i] = Scored{MovieID: m.movieIDs[c.index], Score: c.score}
	}
	return out
}

// nearest returns the k rows closest to row u by cosine distance, excluding
// u itself, with weights 1 - distance. Equal distances favor the lower row.
func (m *CFModel) nearest(u int) (rows []int, weights []float64) {
	if m.k == 0 {
		return nil, nil
	}

	query := make([]float64, len(m.movieIDs))
	for j := m.indptr[u]; j < m.indptr[u+1]; j++ {
		query[m.indices[j]] = m.data[j]
	}

	filter := newTopKFilter(m.k)
	for v := range m.userIDs {
		if v == u {
			continue
		}
		filter.Push(v, m.cosine(u, v, query))
	}

	best := filter.PopAll()
	rows = make([]int, len(best))
	weights = make([]float64, len(best))
	for i, c := range best {
		d := min(max(1-c.score, 0), 2)
		rows[i] = c.index
		weights[i] = 1 - d
	}
	return rows, weights
}

// cosine is the cosine similarity between row u (scattered into query) and
// row v. A zero row is similar to nothing.
func (m *CFModel) cosine(u, v int, query []float64) float64 {
	if m.norms[u] == 0 || m.norms[v] == 0 {
		return 0
	}
	var dot float64
	for j := m.indptr[v]; j < m.indptr[v+1]; j++ {
		dot += query[m.indices[j]] * m.data[j]
	}
	return dot / (m.norms[u] * m.norms[v])
}

type cfState struct {
	UserIDs  []int
	MovieIDs []int
	Indptr   []int
	Indices  []int
	Data     []float64
	Norms    []float64
	K        int
}

// MarshalBinary encodes the model as an opaque gob blob.
func (m *CFModel) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(cfState{
		UserIDs:  m.userIDs,
		MovieIDs: m.movieIDs,
		Indptr:   m.indptr,
		Indices:  m.indices,
		Data:     m.data,
		Norms:    m.norms,
		K:        m.k,
	})
	if err != nil {
		return nil, fmt.Errorf("encode cf model: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a blob written by MarshalBinary. Structurally
// inconsistent blobs are rejected.
func (m *CFModel) UnmarshalBinary(blob []byte) error {
	var st cfState
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&st); err != nil {
		return fmt.Errorf("decode cf model: %w", err)
	}
	if err := st.check(); err != nil {
		return fmt.Errorf("decode cf model: %w", err)
	}

	*m = CFModel{
		userIDs:   st.UserIDs,
		movieIDs:  st.MovieIDs,
		userIndex: indexOf(st.UserIDs),
		indptr:    st.Indptr,
		indices:   st.Indices,
		data:      st.Data,
		norms:     st.Norms,
		k:         st.K,
	}
	if len(m.indptr) == 0 {
		m.indptr = []int{0}
	}
	if len(m.norms) != len(m.userIDs) {
		m.computeNorms()
	}
	return nil
}

func (st *cfState) check() error {
	nu, nm := len(st.UserIDs), len(st.MovieIDs)
	if nu == 0 && len(st.Indptr) == 0 {
		if len(st.Indices) != 0 || len(st.Data) != 0 {
			return errors.New("entries without rows")
		}
		return nil
	}
	if len(st.Indptr) != nu+1 || st.Indptr[0] != 0 {
		return fmt.Errorf("row pointer length %d for %d users", len(st.Indptr), nu)
	}
	for i := 1; i < len(st.Indptr); i++ {
		if st.Indptr[i] < st.Indptr[i-1] {
			return fmt.Errorf("row pointer not monotonic at %d", i)
		}
	}
	if st.Indptr[nu] != len(st.Indices) || len(st.Indices) != len(st.Data) {
		return errors.New("entry count mismatch")
	}
	for _, c := range st.Indices {
		if c < 0 || c >= nm {
			return fmt.Errorf("column %d out of range", c)
		}
	}
	if st.K < 0 || (nu > 0 && st.K > nu-1) {
		return fmt.Errorf("neighbor count %d out of range", st.K)
	}
	return nil
}
