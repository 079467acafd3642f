// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"sort"
)

// TrainTestSplitTime holds out each user's most recent ratings.
//
// Ratings are stable-sorted by timestamp. For every user the last
// max(1, int(n*testFrac)) ratings go to test and the rest to train, so a user
// with a single rating lands entirely in test. Both outputs are grouped by
// ascending user id and keep timestamp order within a user.
func TrainTestSplitTime(ratings []Rating, testFrac float64) (train, test []Rating) {
	sorted := make([]Rating, len(ratings))
	copy(sorted, ratings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	byUser := make(map[int][]Rating)
	for _, r := range sorted {
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}
	users := make([]int, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Ints(users)

	train = make([]Rating, 0, len(ratings))
	for _, u := range users {
		rs := byUser[u]
		nTest := int(float64(len(rs)) * testFrac)
		if nTest < 1 {
			nTest = 1
		}
		if nTest > len(rs) {
			nTest = len(rs)
		}
		cut := len(rs) - nTest
		train = append(train, rs[:cut]...)
		test = append(test, rs[cut:]...)
	}
	return train, test
}
