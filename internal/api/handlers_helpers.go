// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	"github.com/tomtom215/movierec/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
// Newlines, carriage returns, tabs and other control characters are escaped.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// validateRequest runs the struct tags on v and then checks k against maxK.
// It returns nil or a *validation.Errors.
func validateRequest(v interface{}, k, maxK int) error {
	err := validation.ValidateStruct(v)
	if k <= maxK {
		return err
	}

	var verrs *validation.Errors
	if !errors.As(err, &verrs) {
		verrs = &validation.Errors{}
	}
	verrs.Fields = append(verrs.Fields, validation.FieldError{
		Field:   "k",
		Tag:     "max",
		Param:   strconv.Itoa(maxK),
		Value:   k,
		Message: fmt.Sprintf("k must be at most %d", maxK),
	})
	return verrs
}

// respondValidation writes a VALIDATION_FAILED envelope listing each field.
func respondValidation(w http.ResponseWriter, r *http.Request, err error) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		NewResponseWriter(w, r).ValidationError(verrs.Error(), verrs.Fields)
		return
	}
	NewResponseWriter(w, r).ValidationError(err.Error(), nil)
}

// respondParamError writes a 400 for a query parameter that did not parse.
func respondParamError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Str("error", sanitizeLogValue(err.Error())).Msg("Rejected query parameter")
	WriteBadRequest(w, r, err.Error())
}

// respondEngineError maps engine failures onto the error envelope.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	if errors.Is(err, recommend.ErrNotReady) {
		rw.ServiceUnavailable("Models are not loaded yet")
		return
	}
	logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Engine query failed")
	rw.InternalError("Failed to compute recommendations")
}
