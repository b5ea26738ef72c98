// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARNING", zerolog.WarnLevel},
		{"disabled", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if err := (Config{Level: "loud"}).Validate(); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := (Config{Level: "info", Format: "xml"}).Validate(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestCtx_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithSessionID(ctx, "s1")

	Ctx(ctx).Warn().Msg("trigger evaluation failed")

	m := decode(t, &buf)
	if m["request_id"] != "req-1" || m["session_id"] != "s1" {
		t.Errorf("entry = %v", m)
	}
	if m["message"] != "trigger evaluation failed" {
		t.Errorf("message = %v", m["message"])
	}
}

func TestContextIDs_Missing(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || SessionIDFromContext(ctx) != "" {
		t.Error("empty context should carry no ids")
	}
	if id := GenerateRequestID(); len(id) != 36 {
		t.Errorf("GenerateRequestID() = %q, want a UUID", id)
	}
}

func TestSlogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(NewTestLogger(&buf))

	logger.With("service", "api").WithGroup("suture").Warn("service restarted",
		"attempt", 3,
		"err", errors.New("listener closed"),
		slog.Group("backoff", "seconds", 1.5),
	)

	m := decode(t, &buf)
	if m["level"] != "warn" || m["message"] != "service restarted" {
		t.Errorf("entry = %v", m)
	}
	want := map[string]interface{}{
		"service":                "api",
		"suture.attempt":         float64(3),
		"suture.err":             "listener closed",
		"suture.backoff.seconds": 1.5,
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %v, want %v (entry %v)", k, m[k], v, m)
		}
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn logger")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled for a warn logger")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	t.Cleanup(func() { Init(DefaultConfig()) })

	logger := WithComponent("janitor")
	logger.Info().Msg("purged")
	if !strings.Contains(buf.String(), `"component":"janitor"`) {
		t.Errorf("output = %s", buf.String())
	}
}
