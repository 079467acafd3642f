// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Request structs for the query endpoints are filled from the URL query and
// checked with go-playground/validator before the engine is called. The upper
// bound on k comes from configuration, so validateRequest checks it
// separately.

// Defaults for id parameters when the client omits them.
const (
	defaultUserID  = 1
	defaultMovieID = 1
)

// RecsRequest is the validated query for /api/recs.
type RecsRequest struct {
	UserID int `query:"user_id" validate:"gte=0"`
	K      int `query:"k" validate:"min=1"`
}

// SimilarRequest is the validated query for /api/similar.
type SimilarRequest struct {
	MovieID int `query:"movie_id" validate:"gte=0"`
	K       int `query:"k" validate:"min=1"`
}

// SearchTitleRequest is the query for /api/search_title. Any Q is accepted:
// an empty or unmatched one yields an empty list.
type SearchTitleRequest struct {
	Q string `query:"q"`
}

// SimilarByTitleRequest is the validated query for /api/similar_by_title.
type SimilarByTitleRequest struct {
	Q string `query:"q" validate:"required,max=256"`
	K int    `query:"k" validate:"min=1"`
}

// HybridRequest is the validated query for /api/hybrid.
type HybridRequest struct {
	UserID  int     `query:"user_id" validate:"gte=0"`
	MovieID int     `query:"movie_id" validate:"gte=0"`
	K       int     `query:"k" validate:"min=1"`
	Alpha   float64 `query:"alpha" validate:"gte=0,lte=1"`
}

// paramError reports a query parameter that failed to parse.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be a number, got %q", e.name, sanitizeLogValue(e.value))
}

func (e *paramError) Unwrap() error { return ErrInvalidNumber }

// intParam returns the integer query parameter key, or def when absent.
func intParam(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: key, value: raw}
	}
	return v, nil
}

// floatParam returns the float query parameter key, or def when absent.
func floatParam(r *http.Request, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &paramError{name: key, value: raw}
	}
	return v, nil
}

func (h *Handler) parseRecsRequest(r *http.Request) (RecsRequest, error) {
	var req RecsRequest
	var err error
	if req.UserID, err = intParam(r, "user_id", defaultUserID); err != nil {
		return req, err
	}
	if req.K, err = intParam(r, "k", h.defaultK()); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) parseSimilarRequest(r *http.Request) (SimilarRequest, error) {
	var req SimilarRequest
	var err error
	if req.MovieID, err = intParam(r, "movie_id", defaultMovieID); err != nil {
		return req, err
	}
	if req.K, err = intParam(r, "k", h.defaultK()); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) parseSimilarByTitleRequest(r *http.Request) (SimilarByTitleRequest, error) {
	req := SimilarByTitleRequest{Q: strings.TrimSpace(r.URL.Query().Get("q"))}
	var err error
	if req.K, err = intParam(r, "k", h.defaultK()); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) parseHybridRequest(r *http.Request) (HybridRequest, error) {
	var req HybridRequest
	var err error
	if req.UserID, err = intParam(r, "user_id", defaultUserID); err != nil {
		return req, err
	}
	if req.MovieID, err = intParam(r, "movie_id", defaultMovieID); err != nil {
		return req, err
	}
	if req.K, err = intParam(r, "k", h.defaultK()); err != nil {
		return req, err
	}
	if req.Alpha, err = floatParam(r, "alpha", h.config.Recommend.Alpha); err != nil {
		return req, err
	}
	return req, nil
}
