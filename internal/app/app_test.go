// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/dataset"
)

const testRatings = `userId,movieId,rating,timestamp
1,10,5.0,100
1,20,3.0,101
2,10,4.0,102
2,30,5.0,103
`

const testMovies = `movieId,title,genres
10,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy
20,Jumanji (1995),Adventure|Children|Fantasy
30,Heat (1995),Action|Crime|Thriller
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dataDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, dataset.RatingsFile), testRatings)
	writeFile(t, filepath.Join(dataDir, dataset.MoviesFile), testMovies)

	cfg := config.Default()
	cfg.Data.Dir = dataDir
	cfg.Data.AutoDownload = false
	cfg.Models.Dir = t.TempDir()
	cfg.Security.RateLimitDisabled = true
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEngineConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Recommend.Neighbors = 12
	cfg.Recommend.Alpha = 0.4
	cfg.Models.RetrainOnStart = true

	ec := EngineConfig(cfg)
	if ec.Neighbors != 12 || ec.Alpha != 0.4 || !ec.RetrainOnStart {
		t.Errorf("Unexpected mapping: %+v", ec)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("Defaults should map to a valid engine config: %v", err)
	}
}

func TestNewLoaderRejectsUnknownSource(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Data.Source = "parquet"
	if _, err := NewLoader(cfg, nil); err == nil {
		t.Fatal("Expected error for unknown source")
	}
}

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, Options{}); err == nil {
		t.Fatal("Expected error for nil config")
	}
}

func TestBootPersistsModels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		backend string
	}{
		{name: "file", backend: "file"},
		{name: "badger", backend: "badger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t)
			cfg.Models.Backend = tt.backend

			a, err := New(cfg, Options{})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := a.Boot(ctx); err != nil {
				t.Fatalf("Boot: %v", err)
			}

			names, err := a.Store.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(names) != 2 {
				t.Errorf("Expected cf and content blobs after boot, got %v", names)
			}
		})
	}
}

func TestEphemeralSkipsStore(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	a, err := New(cfg, Options{Ephemeral: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Store != nil {
		t.Error("Expected no store in ephemeral mode")
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestHTTPServerServesBootedEngine(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	a, err := New(cfg, Options{Ephemeral: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	server, handler := a.NewHTTPServer()
	if server.Addr != cfg.Server.Addr() {
		t.Errorf("Expected addr %s, got %s", cfg.Server.Addr(), server.Addr)
	}
	if handler.Cache() == nil {
		t.Error("Expected response cache with default config")
	}

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected ready, got %d", rec.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	cfg.Server.ShutdownTimeout = 2 * time.Second

	a, err := New(cfg, Options{Ephemeral: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	url := "http://" + cfg.Server.Addr() + "/api/health/live"
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(url) //nolint:noctx // test polling
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("Server did not come up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
