// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import "container/heap"

// candidate is a matrix index with its score.
type candidate struct {
	index int
	score float64
}

// worse orders candidates for eviction: a lower score, or an equal score
// with a higher index.
func worse(a, b candidate) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.index > b.index
}

// candidateHeap is a min-heap on worse, so the root is evicted first.
type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topKFilter keeps the k best candidates seen so far.
type topKFilter struct {
	h candidateHeap
	k int
}

func newTopKFilter(k int) *topKFilter {
	if k < 0 {
		k = 0
	}
	return &topKFilter{h: make(candidateHeap, 0, k+1), k: k}
}

// Push offers a candidate. Cost is O(log k).
func (f *topKFilter) Push(index int, score float64) {
	if f.k == 0 {
		return
	}
	c := candidate{index: index, score: score}
	if len(f.h) == f.k {
		if !worse(f.h[0], c) {
			return
		}
		f.h[0] = c
		heap.Fix(&f.h, 0)
		return
	}
	heap.Push(&f.h, c)
}

// PopAll drains the filter, best candidate first.
func (f *topKFilter) PopAll() []candidate {
	out := make([]candidate, len(f.h))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&f.h).(candidate)
	}
	return out
}
