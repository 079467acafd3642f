// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
)

// DuckDBSource reads the tables through an in-memory DuckDB using
// read_csv_auto. Every column is read as VARCHAR and parsed by the same code
// as CSVSource, so both sources agree on column rules and errors.
type DuckDBSource struct{}

// ReadRatings implements Source.
func (DuckDBSource) ReadRatings(ctx context.Context, path string) ([]Rating, error) {
	var out []Rating
	err := queryCSV(ctx, path, func(header []string, next rowReader) error {
		var err error
		out, err = parseRatings(ctx, header, next)
		return err
	})
	return out, err
}

// ReadMovies implements Source.
func (DuckDBSource) ReadMovies(ctx context.Context, path string) ([]Movie, error) {
	var out []Movie
	err := queryCSV(ctx, path, func(header []string, next rowReader) error {
		var err error
		out, err = parseMovies(ctx, header, next)
		return err
	})
	return out, err
}

func queryCSV(ctx context.Context, path string, fn func(header []string, next rowReader) error) error {
	// Extension autoloading is off so a restricted network cannot stall open.
	db, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(
		"SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)",
		quoteLiteral(path),
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", path, err)
	}

	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	rec := make([]string, len(header))

	next := func() ([]string, error) {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, c := range cells {
			rec[i] = c.String
		}
		return rec, nil
	}

	return fn(header, next)
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// NewSource returns the Source for a data.source config value.
func NewSource(name string) (Source, error) {
	switch name {
	case "", "csv":
		return CSVSource{}, nil
	case "duckdb":
		return DuckDBSource{}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", name)
	}
}
