// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import "errors"

// Common API errors
var (
	// ErrMissingQuery indicates a required q parameter was absent or blank
	ErrMissingQuery = errors.New("missing required query parameter q")

	// ErrInvalidNumber indicates a numeric query parameter did not parse
	ErrInvalidNumber = errors.New("invalid numeric parameter")
)
