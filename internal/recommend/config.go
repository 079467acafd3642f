// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import "fmt"

// Config contains the engine's scoring parameters.
type Config struct {
	// Neighbors is the CF neighbor count before clamping.
	Neighbors int `json:"neighbors"`

	// DefaultK is the list length used when a caller does not ask for one.
	DefaultK int `json:"default_k"`

	// MaxK bounds any requested list length.
	MaxK int `json:"max_k"`

	// Alpha is the CF weight in hybrid blends; content gets 1-Alpha.
	Alpha float64 `json:"alpha"`

	// SearchLimit and SearchCutoff control title search.
	SearchLimit  int     `json:"search_limit"`
	SearchCutoff float64 `json:"search_cutoff"`

	// MatchCutoff is the minimum ratio for similar-by-title's single match.
	MatchCutoff float64 `json:"match_cutoff"`

	// RetrainOnStart skips stored models at boot.
	RetrainOnStart bool `json:"retrain_on_start"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Neighbors:    DefaultCFConfig().Neighbors,
		DefaultK:     10,
		MaxK:         100,
		Alpha:        0.7,
		SearchLimit:  DefaultSearchLimit,
		SearchCutoff: DefaultSearchCutoff,
		MatchCutoff:  DefaultMatchCutoff,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k, got %d < %d", c.MaxK, c.DefaultK)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0, 1], got %f", c.Alpha)
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be positive, got %d", c.SearchLimit)
	}
	if c.SearchCutoff < 0 || c.SearchCutoff > 1 {
		return fmt.Errorf("search_cutoff must be in [0, 1], got %f", c.SearchCutoff)
	}
	if c.MatchCutoff < 0 || c.MatchCutoff > 1 {
		return fmt.Errorf("match_cutoff must be in [0, 1], got %f", c.MatchCutoff)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
