// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/movierec/internal/dataset"
	"github.com/tomtom215/movierec/internal/logging"
)

// PrecisionRecallAtK averages precision@k and recall@k over the users in
// recsByUser whose truth set is non-empty.
//
// For each user the first k recommendations are compared with the truth set:
// precision is hits/k and recall is hits/max(1, |truth|). Duplicate ids in a
// list count once. With no qualifying users, or k <= 0, both are 0.
func PrecisionRecallAtK(recsByUser map[int][]int, truthByUser map[int]map[int]struct{}, k int) (precision, recall float64) {
	if k <= 0 {
		return 0, 0
	}

	var sumP, sumR float64
	users := 0
	for u, recs := range recsByUser {
		truth := truthByUser[u]
		if len(truth) == 0 {
			continue
		}
		if len(recs) > k {
			recs = recs[:k]
		}

		hits := 0
		counted := make(map[int]struct{}, len(recs))
		for _, id := range recs {
			if _, dup := counted[id]; dup {
				continue
			}
			counted[id] = struct{}{}
			if _, ok := truth[id]; ok {
				hits++
			}
		}

		sumP += float64(hits) / float64(k)
		sumR += float64(hits) / float64(max(1, len(truth)))
		users++
	}

	if users == 0 {
		return 0, 0
	}
	return sumP / float64(users), sumR / float64(users)
}

// EvalConfig configures an offline evaluation run.
type EvalConfig struct {
	// TestFrac is the share of each user's most recent ratings held out.
	TestFrac float64

	// K is the recommendation list length scored.
	K int

	// Neighbors configures the CF model trained on the split.
	Neighbors int

	// ProgressInterval throttles progress logging. Default: 2s
	ProgressInterval time.Duration
}

// EvalResult is the outcome of Evaluate.
type EvalResult struct {
	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	Users        int     `json:"users"`
	K            int     `json:"k"`
	TrainRatings int     `json:"train_ratings"`
	TestRatings  int     `json:"test_ratings"`
}

// Evaluate holds out each user's latest ratings, trains a CF model on the
// rest and scores top-K recommendations (seen movies excluded) against the
// held-out movies.
func Evaluate(ctx context.Context, ds *dataset.Dataset, cfg EvalConfig) (EvalResult, error) {
	if cfg.TestFrac <= 0 || cfg.TestFrac >= 1 {
		return EvalResult{}, fmt.Errorf("test fraction must be in (0, 1), got %f", cfg.TestFrac)
	}
	if cfg.K < 1 {
		return EvalResult{}, fmt.Errorf("k must be positive, got %d", cfg.K)
	}
	if cfg.Neighbors < 1 {
		cfg.Neighbors = DefaultCFConfig().Neighbors
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 2 * time.Second
	}

	logger := logging.Ctx(ctx).With().Str("component", "evaluate").Logger()

	train, test := dataset.TrainTestSplitTime(ds.Ratings, cfg.TestFrac)
	cf, err := BuildCF(ctx, train, CFConfig{Neighbors: cfg.Neighbors})
	if err != nil {
		return EvalResult{}, fmt.Errorf("failed to train cf model: %w", err)
	}

	truth := make(map[int]map[int]struct{})
	for _, r := range test {
		if truth[r.UserID] == nil {
			truth[r.UserID] = make(map[int]struct{})
		}
		truth[r.UserID][r.MovieID] = struct{}{}
	}

	users := make([]int, 0, len(truth))
	for u := range truth {
		users = append(users, u)
	}
	sort.Ints(users)

	progress := rate.Sometimes{Interval: cfg.ProgressInterval}
	recs := make(map[int][]int, len(users))
	for i, u := range users {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return EvalResult{}, err
			}
		}
		recs[u] = MovieIDs(cf.RecommendForUser(u, cfg.K, true))
		progress.Do(func() {
			logger.Info().Int("done", i+1).Int("users", len(users)).Msg("Evaluating")
		})
	}

	p, r := PrecisionRecallAtK(recs, truth, cfg.K)
	res := EvalResult{
		Precision:    p,
		Recall:       r,
		Users:        len(users),
		K:            cfg.K,
		TrainRatings: len(train),
		TestRatings:  len(test),
	}
	logger.Info().
		Float64("precision", p).
		Float64("recall", r).
		Int("users", res.Users).
		Int("k", res.K).
		Msg("Evaluation complete")
	return res, nil
}
