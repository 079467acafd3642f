// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Recommend.Neighbors != 30 {
		t.Errorf("Recommend.Neighbors = %d, want 30", cfg.Recommend.Neighbors)
	}
	if cfg.Recommend.Alpha != 0.7 {
		t.Errorf("Recommend.Alpha = %v, want 0.7", cfg.Recommend.Alpha)
	}
	if cfg.Recommend.SearchLimit != 8 || cfg.Recommend.SearchCutoff != 0.6 {
		t.Errorf("search defaults = (%d, %v), want (8, 0.6)",
			cfg.Recommend.SearchLimit, cfg.Recommend.SearchCutoff)
	}
	if cfg.Recommend.MatchCutoff != 0.5 {
		t.Errorf("Recommend.MatchCutoff = %v, want 0.5", cfg.Recommend.MatchCutoff)
	}
	if cfg.Evaluate.TestFrac != 0.2 || cfg.Evaluate.K != 10 {
		t.Errorf("evaluate defaults = (%v, %d), want (0.2, 10)", cfg.Evaluate.TestFrac, cfg.Evaluate.K)
	}
	if cfg.Data.URL != DefaultDatasetURL {
		t.Errorf("Data.URL = %q, want %q", cfg.Data.URL, DefaultDatasetURL)
	}
	if cfg.Models.Backend != "file" {
		t.Errorf("Models.Backend = %q, want file", cfg.Models.Backend)
	}
	if cfg.Models.RetrainInterval != 0 {
		t.Errorf("Models.RetrainInterval = %v, want 0", cfg.Models.RetrainInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"DATA_DIR", "data.dir"},
		{"MODEL_BACKEND", "models.backend"},
		{"RECOMMEND_ALPHA", "recommend.alpha"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		path := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(path, []byte("server:\n  port: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(path)

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(custom, []byte("server:\n  port: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(ConfigPathEnvVar, custom)

		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH pointing nowhere falls back", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoadEnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_ALPHA", "0.25")
	t.Setenv("MODEL_RETRAIN_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Alpha != 0.25 {
		t.Errorf("Recommend.Alpha = %v, want 0.25", cfg.Recommend.Alpha)
	}
	if cfg.Models.RetrainInterval != 6*time.Hour {
		t.Errorf("Models.RetrainInterval = %v, want 6h", cfg.Models.RetrainInterval)
	}
	want := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	path := filepath.Join(t.TempDir(), "movierec.yaml")
	content := `
server:
  port: 8080
models:
  backend: badger
  dir: /tmp/models
recommend:
  neighbors: 15
security:
  cors_origins:
    - https://movies.example
cache:
  ttl: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Models.Backend != "badger" || cfg.Models.Dir != "/tmp/models" {
		t.Errorf("Models = %+v", cfg.Models)
	}
	if cfg.Recommend.Neighbors != 15 {
		t.Errorf("Recommend.Neighbors = %d, want 15", cfg.Recommend.Neighbors)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://movies.example"}) {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("Cache.TTL = %v, want 30s", cfg.Cache.TTL)
	}
	if cfg.Recommend.Alpha != 0.7 {
		t.Errorf("Recommend.Alpha = %v, want default 0.7", cfg.Recommend.Alpha)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad backend", map[string]string{"MODEL_BACKEND": "s3"}, "backend"},
		{"bad source", map[string]string{"DATA_SOURCE": "parquet"}, "source"},
		{"alpha above one", map[string]string{"RECOMMEND_ALPHA": "1.5"}, "alpha"},
		{"port out of range", map[string]string{"HTTP_PORT": "70000"}, "port"},
		{"default_k above max_k", map[string]string{"RECOMMEND_DEFAULT_K": "50", "RECOMMEND_MAX_K": "20"}, "default_k"},
		{"test_frac of one", map[string]string{"EVAL_TEST_FRAC": "1"}, "test_frac"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 5000}
	if got := s.Addr(); got != "127.0.0.1:5000" {
		t.Errorf("Addr() = %q", got)
	}
}
