// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{"info", slog.LevelInfo, `"level":"info"`},
		{"warn", slog.LevelWarn, `"level":"warn"`},
		{"error", slog.LevelError, `"level":"error"`},
		{"above error", slog.LevelError + 4, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf).Level(zerolog.TraceLevel)))
			logger.Log(context.Background(), tt.level, "service restarted", "service", "catalog-reload")

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("output %s missing %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, `"service":"catalog-reload"`) {
				t.Errorf("attribute missing: %s", out)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(&bytes.Buffer{}).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn logger")
	}
}

func TestSlogHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))
	logger := base.With("layer", "api").WithGroup("supervisor").WithGroup("event")

	logger.Info("backoff",
		"failures", 3,
		"ratio", 0.5,
		"terminal", false,
		"wait", 2*time.Second,
		slog.Group("svc", "name", "http-server"),
	)

	out := buf.String()
	for _, want := range []string{
		`"supervisor.event.layer":"api"`,
		`"supervisor.event.failures":3`,
		`"supervisor.event.ratio":0.5`,
		`"supervisor.event.terminal":false`,
		`"supervisor.event.svc.name":"http-server"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}

	if h := NewSlogHandler().WithGroup(""); h == nil {
		t.Error("WithGroup(\"\") returned nil")
	}
}
