// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import "sort"

// Blend combines a CF list and a content list into one ranking.
//
// Each movie scores alpha*cf + (1-alpha)*content, where a list the movie is
// absent from contributes nothing. The result is sorted by descending score,
// ties on ascending movie id, and cut to topK.
func Blend(cf, content []Scored, alpha float64, topK int) []Scored {
	if topK <= 0 {
		return []Scored{}
	}

	acc := make(map[int]float64, len(cf)+len(content))
	for _, s := range cf {
		acc[s.MovieID] += alpha * s.Score
	}
	for _, s := range content {
		acc[s.MovieID] += (1 - alpha) * s.Score
	}

	out := make([]Scored, 0, len(acc))
	for id, score := range acc {
		out = append(out, Scored{MovieID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].MovieID < out[j].MovieID
	})

	if len(out) > topK {
		out = out[:topK]
	}
	return out
}
