// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVSource reads the tables with encoding/csv. Quoted titles containing
// commas ("American President, The (1995)") are handled by the reader.
type CSVSource struct{}

// ReadRatings implements Source.
func (CSVSource) ReadRatings(ctx context.Context, path string) ([]Rating, error) {
	var out []Rating
	err := readCSV(path, func(header []string, next rowReader) error {
		var err error
		out, err = parseRatings(ctx, header, next)
		return err
	})
	return out, err
}

// ReadMovies implements Source.
func (CSVSource) ReadMovies(ctx context.Context, path string) ([]Movie, error) {
	var out []Movie
	err := readCSV(path, func(header []string, next rowReader) error {
		var err error
		out, err = parseMovies(ctx, header, next)
		return err
	})
	return out, err
}

func readCSV(path string, fn func(header []string, next rowReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return decodeCSV(bufio.NewReader(f), fn)
}

func decodeCSV(r io.Reader, fn func(header []string, next rowReader) error) error {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	header = append([]string(nil), header...)

	return fn(header, reader.Read)
}
