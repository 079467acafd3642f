// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/movierec/internal/dataset"
)

// scenarioRatings is the two-user end-to-end case: user 2 is user 1's only
// neighbor and the only source of movie 30.
func scenarioRatings() []dataset.Rating {
	return []dataset.Rating{
		{UserID: 1, MovieID: 10, Rating: 5.0},
		{UserID: 1, MovieID: 20, Rating: 3.0},
		{UserID: 2, MovieID: 10, Rating: 4.0},
		{UserID: 2, MovieID: 30, Rating: 5.0},
	}
}

func testMovies() []dataset.Movie {
	return []dataset.Movie{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: "Adventure|Animation|Children|Comedy|Fantasy"},
		{MovieID: 2, Title: "Jumanji (1995)", Genres: "Adventure|Children|Fantasy"},
		{MovieID: 3, Title: "Grumpier Old Men (1995)", Genres: "Comedy|Romance"},
		{MovieID: 4, Title: "Sabrina (1995)", Genres: "Comedy|Romance"},
		{MovieID: 5, Title: "GoldenEye (1995)", Genres: "Action|Adventure|Thriller"},
		{MovieID: 6, Title: "Nothing Listed (2001)", Genres: NoGenresListed},
	}
}

// gridRatings builds a deterministic ratings table where every user rates a
// different overlapping window of movies.
func gridRatings(users, movies int) []dataset.Rating {
	var out []dataset.Rating
	for u := 1; u <= users; u++ {
		for m := 1; m <= movies; m++ {
			if (u*7+m*3)%5 >= 2 {
				continue
			}
			out = append(out, dataset.Rating{
				UserID:    u,
				MovieID:   m * 10,
				Rating:    float64((u+m)%5) + 1,
				Timestamp: int64(u*1000 + m),
			})
		}
	}
	return out
}

func testDataset() *dataset.Dataset {
	ratings := append(scenarioRatings(),
		dataset.Rating{UserID: 3, MovieID: 1, Rating: 4.5, Timestamp: 1},
		dataset.Rating{UserID: 3, MovieID: 2, Rating: 4.0, Timestamp: 2},
		dataset.Rating{UserID: 4, MovieID: 1, Rating: 5.0, Timestamp: 3},
		dataset.Rating{UserID: 4, MovieID: 5, Rating: 3.5, Timestamp: 4},
		dataset.Rating{UserID: 1, MovieID: 1, Rating: 4.0, Timestamp: 5},
	)
	return &dataset.Dataset{Ratings: ratings, Movies: testMovies()}
}

// fakeLoader returns a fixed dataset and counts calls.
type fakeLoader struct {
	ds    *dataset.Dataset
	err   error
	calls atomic.Int32
}

func (l *fakeLoader) Load(context.Context) (*dataset.Dataset, error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return l.ds, nil
}
