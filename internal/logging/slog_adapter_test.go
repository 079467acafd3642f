// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{name: "info", level: slog.LevelInfo, wantLevel: `"level":"info"`},
		{name: "warn", level: slog.LevelWarn, wantLevel: `"level":"warn"`},
		{name: "error", level: slog.LevelError, wantLevel: `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := &SlogHandler{logger: zerolog.New(&buf)}

			record := slog.NewRecord(time.Now(), tt.level, "service restarted", 0)
			record.AddAttrs(slog.String("service", "http-server"), slog.Int("attempt", 2))

			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			out := buf.String()
			for _, want := range []string{tt.wantLevel, `"service":"http-server"`, `"attempt":2`, "service restarted"} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %s: %s", want, out)
				}
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	handler := &SlogHandler{logger: zerolog.New(nil).Level(zerolog.WarnLevel)}

	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn-level logger")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn-level logger")
	}
}

func TestSlogHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(zerolog.New(&buf))

	logger.With("tree", "movierec").WithGroup("supervisor").Warn("backoff",
		slog.Duration("wait", 15*time.Second),
		slog.Any("err", errors.New("boom")),
		slog.Group("svc", slog.String("name", "retrain")),
	)

	out := buf.String()
	for _, want := range []string{
		`"tree":"movierec"`,
		`"supervisor.err":"boom"`,
		`"supervisor.svc.name":"retrain"`,
		`"supervisor.wait":`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}
