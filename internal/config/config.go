// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package config loads Movierec settings from built-in defaults, an optional
// YAML file and environment variables, in that order of increasing priority.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Models    ModelsConfig    `koanf:"models"`
	Recommend RecommendConfig `koanf:"recommend"`
	Evaluate  EvaluateConfig  `koanf:"evaluate"`
	Security  SecurityConfig  `koanf:"security"`
	Cache     CacheConfig     `koanf:"cache"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DataConfig locates the MovieLens tables.
type DataConfig struct {
	// Dir holds ratings.csv and movies.csv.
	Dir string `koanf:"dir" validate:"required"`

	// URL is the zip archive fetched when either table is missing.
	URL string `koanf:"url" validate:"omitempty,url"`

	// Source selects the CSV reader: csv (encoding/csv) or duckdb (read_csv_auto).
	Source string `koanf:"source" validate:"oneof=csv duckdb"`

	// AutoDownload fetches the archive when tables are missing. When false a
	// missing table is a startup error.
	AutoDownload bool `koanf:"auto_download"`
}

// ModelsConfig controls model persistence.
type ModelsConfig struct {
	Dir     string `koanf:"dir" validate:"required"`
	Backend string `koanf:"backend" validate:"oneof=file badger"`

	// RetrainOnStart ignores stored models and trains fresh ones at boot.
	RetrainOnStart bool `koanf:"retrain_on_start"`

	// RetrainInterval reloads the dataset from disk and retrains on a schedule.
	// Zero disables scheduled retraining.
	RetrainInterval time.Duration `koanf:"retrain_interval" validate:"gte=0"`
}

// RecommendConfig holds scoring defaults.
type RecommendConfig struct {
	Neighbors    int     `koanf:"neighbors" validate:"min=1"`
	DefaultK     int     `koanf:"default_k" validate:"min=1"`
	MaxK         int     `koanf:"max_k" validate:"min=1"`
	Alpha        float64 `koanf:"alpha" validate:"gte=0,lte=1"`
	SearchLimit  int     `koanf:"search_limit" validate:"min=1"`
	SearchCutoff float64 `koanf:"search_cutoff" validate:"gte=0,lte=1"`
	MatchCutoff  float64 `koanf:"match_cutoff" validate:"gte=0,lte=1"`
}

// EvaluateConfig holds offline evaluation defaults.
type EvaluateConfig struct {
	TestFrac float64 `koanf:"test_frac" validate:"gt=0,lt=1"`
	K        int     `koanf:"k" validate:"min=1"`
}

// SecurityConfig covers CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CacheConfig controls the HTTP response cache.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Capacity int           `koanf:"capacity" validate:"min=1"`
	TTL      time.Duration `koanf:"ttl" validate:"gt=0"`
}

// DefaultDatasetURL is the MovieLens "latest small" archive.
const DefaultDatasetURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

// defaultConfig is the first layer applied by Load.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Data: DataConfig{
			Dir:          "data",
			URL:          DefaultDatasetURL,
			Source:       "csv",
			AutoDownload: true,
		},
		Models: ModelsConfig{
			Dir:     "models",
			Backend: "file",
		},
		Recommend: RecommendConfig{
			Neighbors:    30,
			DefaultK:     10,
			MaxK:         100,
			Alpha:        0.7,
			SearchLimit:  8,
			SearchCutoff: 0.6,
			MatchCutoff:  0.5,
		},
		Evaluate: EvaluateConfig{
			TestFrac: 0.2,
			K:        10,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 4096,
			TTL:      10 * time.Minute,
		},
	}
}

// Default returns a copy of the built-in defaults. Tests and the CLI use it
// when no configuration sources are wanted.
func Default() *Config {
	return defaultConfig()
}
