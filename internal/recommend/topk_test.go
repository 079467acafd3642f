// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"sort"
	"testing"
)

func TestTopKFilter(t *testing.T) {
	scores := []float64{0.3, 0.9, 0.1, 0.9, 0.5, 0.0, 0.7, 0.5}

	tests := []struct {
		name string
		k    int
		want []int
	}{
		{name: "zero k", k: 0, want: []int{}},
		{name: "top one", k: 1, want: []int{1}},
		{name: "ties favor lower index", k: 2, want: []int{1, 3}},
		{name: "partial", k: 4, want: []int{1, 3, 6, 4}},
		{name: "tie at boundary", k: 5, want: []int{1, 3, 6, 4, 7}},
		{name: "k above len", k: 20, want: []int{1, 3, 6, 4, 7, 0, 2, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTopKFilter(tt.k)
			for i, s := range scores {
				f.Push(i, s)
			}
			got := f.PopAll()
			if len(got) != len(tt.want) {
				t.Fatalf("PopAll() len = %d, want %d", len(got), len(tt.want))
			}
			for i, c := range got {
				if c.index != tt.want[i] {
					t.Errorf("PopAll()[%d] = %d, want %d", i, c.index, tt.want[i])
				}
				if c.score != scores[c.index] {
					t.Errorf("PopAll()[%d] score = %v, want %v", i, c.score, scores[c.index])
				}
			}
		})
	}
}

func TestTopKFilterMatchesFullSort(t *testing.T) {
	scores := make([]float64, 200)
	for i := range scores {
		scores[i] = float64((i*37)%23) / 7
	}

	all := make([]candidate, len(scores))
	for i, s := range scores {
		all[i] = candidate{index: i, score: s}
	}
	sort.Slice(all, func(i, j int) bool { return worse(all[j], all[i]) })

	for _, k := range []int{1, 5, 23, 199, 200} {
		f := newTopKFilter(k)
		for i, s := range scores {
			f.Push(i, s)
		}
		got := f.PopAll()
		for i := range got {
			if got[i] != all[i] {
				t.Fatalf("k=%d: position %d = %+v, want %+v", k, i, got[i], all[i])
			}
		}
	}
}
