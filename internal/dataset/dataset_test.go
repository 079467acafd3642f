// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testRatingsCSV = `userId,movieId,rating,timestamp
1,10,4.0,964982703
1,20,3.5,964981247
2,10,5.0,964982224
2,30,2.0,964983815
`

const testMoviesCSV = `movieId,title,genres
10,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
20,"American President, The (1995)",Comedy|Drama|Romance
30,Heat (1995),Action|Crime|Thriller
40,Untitled,(no genres listed)
`

func writeTables(t *testing.T, dir, ratings, movies string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, RatingsFile), []byte(ratings), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, MoviesFile), []byte(movies), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	writeTables(t, dir, testRatingsCSV, testMoviesCSV)
	ctx := context.Background()

	ratings, err := CSVSource{}.ReadRatings(ctx, filepath.Join(dir, RatingsFile))
	if err != nil {
		t.Fatalf("ReadRatings: %v", err)
	}
	wantRatings := []Rating{
		{UserID: 1, MovieID: 10, Rating: 4.0, Timestamp: 964982703},
		{UserID: 1, MovieID: 20, Rating: 3.5, Timestamp: 964981247},
		{UserID: 2, MovieID: 10, Rating: 5.0, Timestamp: 964982224},
		{UserID: 2, MovieID: 30, Rating: 2.0, Timestamp: 964983815},
	}
	if !reflect.DeepEqual(ratings, wantRatings) {
		t.Errorf("ratings = %+v, want %+v", ratings, wantRatings)
	}

	movies, err := CSVSource{}.ReadMovies(ctx, filepath.Join(dir, MoviesFile))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if len(movies) != 4 {
		t.Fatalf("len(movies) = %d, want 4", len(movies))
	}
	if movies[1].Title != "American President, The (1995)" {
		t.Errorf("quoted title = %q", movies[1].Title)
	}
	if movies[3].Genres != "(no genres listed)" {
		t.Errorf("genres = %q, want raw value", movies[3].Genres)
	}
}

func TestCSVSourceErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		ratings string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing rating column",
			ratings: "userId,movieId,timestamp\n1,2,3\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "empty file",
			ratings: "",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "non-numeric user",
			ratings: "userId,movieId,rating\nabc,2,3.0\n",
			wantMsg: "invalid userId",
		},
		{
			name:    "non-numeric rating",
			ratings: "userId,movieId,rating\n1,2,good\n",
			wantMsg: "invalid rating",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, RatingsFile)
			if err := os.WriteFile(path, []byte(tt.ratings), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := CSVSource{}.ReadRatings(ctx, path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want message containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCSVSourceOptionalColumns(t *testing.T) {
	dir := t.TempDir()
	writeTables(t, dir, "userId,movieId,rating\n1,2,3.0\n", "movieId,title\n2,Heat (1995)\n")
	ctx := context.Background()

	ratings, err := CSVSource{}.ReadRatings(ctx, filepath.Join(dir, RatingsFile))
	if err != nil {
		t.Fatalf("ReadRatings: %v", err)
	}
	if ratings[0].Timestamp != 0 {
		t.Errorf("Timestamp = %d, want 0", ratings[0].Timestamp)
	}

	movies, err := CSVSource{}.ReadMovies(ctx, filepath.Join(dir, MoviesFile))
	if err != nil {
		t.Fatalf("ReadMovies: %v", err)
	}
	if movies[0].Genres != "" {
		t.Errorf("Genres = %q, want empty", movies[0].Genres)
	}
}

func TestDuckDBSourceMatchesCSV(t *testing.T) {
	dir := t.TempDir()
	writeTables(t, dir, testRatingsCSV, testMoviesCSV)
	ctx := context.Background()

	csvRatings, err := CSVSource{}.ReadRatings(ctx, filepath.Join(dir, RatingsFile))
	if err != nil {
		t.Fatal(err)
	}
	duckRatings, err := DuckDBSource{}.ReadRatings(ctx, filepath.Join(dir, RatingsFile))
	if err != nil {
		t.Fatalf("DuckDB ReadRatings: %v", err)
	}
	if !reflect.DeepEqual(csvRatings, duckRatings) {
		t.Errorf("duckdb ratings = %+v, want %+v", duckRatings, csvRatings)
	}

	csvMovies, err := CSVSource{}.ReadMovies(ctx, filepath.Join(dir, MoviesFile))
	if err != nil {
		t.Fatal(err)
	}
	duckMovies, err := DuckDBSource{}.ReadMovies(ctx, filepath.Join(dir, MoviesFile))
	if err != nil {
		t.Fatalf("DuckDB ReadMovies: %v", err)
	}
	if !reflect.DeepEqual(csvMovies, duckMovies) {
		t.Errorf("duckdb movies = %+v, want %+v", duckMovies, csvMovies)
	}
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		want    Source
		wantErr bool
	}{
		{"", CSVSource{}, false},
		{"csv", CSVSource{}, false},
		{"duckdb", DuckDBSource{}, false},
		{"parquet", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSource(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSource(%q) error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("NewSource(%q) = %T, want %T", tt.name, got, tt.want)
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("/data/o'brien/ratings.csv"); got != "'/data/o''brien/ratings.csv'" {
		t.Errorf("quoteLiteral = %s", got)
	}
}

func TestDatasetTitles(t *testing.T) {
	ds := &Dataset{Movies: []Movie{
		{MovieID: 1, Title: "First"},
		{MovieID: 2, Title: "Second"},
		{MovieID: 1, Title: "Replaced"},
	}}
	titles := ds.Titles()
	if titles[1] != "Replaced" || titles[2] != "Second" {
		t.Errorf("Titles() = %v", titles)
	}
}
