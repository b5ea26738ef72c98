// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/tripsense/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestChiMiddlewareConfigFromServer(t *testing.T) {
	t.Parallel()

	srv := config.Default().Server
	srv.CORSOrigins = []string{"https://app.example.com"}
	srv.RateLimitReqs = 0
	srv.Environment = "production"

	cfg := ChiMiddlewareConfigFromServer(srv)
	if !cfg.RateLimitDisabled {
		t.Error("a zero request budget should disable rate limiting")
	}
	if !cfg.HSTS {
		t.Error("production should enable HSTS")
	}
	if cfg.MaxBodyBytes != srv.MaxBodyBytes {
		t.Errorf("max body = %d, want %d", cfg.MaxBodyBytes, srv.MaxBodyBytes)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	h := NewChiMiddleware(cfg).RateLimit()(okHandler)

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
				t.Errorf("limited response = %s, want the error envelope", rec.Body.String())
			}
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	h := NewChiMiddleware(cfg).RateLimit()(okHandler)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i, rec.Code)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.MaxBodyBytes = 16
	h := NewChiMiddleware(cfg).BodyLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"within limit", `{"a":1}`, http.StatusOK},
		{"declared length over limit", strings.Repeat("x", 64), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestBodyLimit_UndeclaredLength(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.MaxBodyBytes = 16
	var readErr error
	h := NewChiMiddleware(cfg).BodyLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !isBodyTooLarge(readErr) {
		t.Errorf("read error = %v, want a MaxBytesError", readErr)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hsts bool
	}{
		{"development", false},
		{"production", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultChiMiddlewareConfig()
			cfg.HSTS = tt.hsts
			rec := httptest.NewRecorder()
			NewChiMiddleware(cfg).SecurityHeaders()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Errorf("missing security headers: %v", rec.Header())
			}
			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.hsts {
				t.Errorf("HSTS present = %v, want %v", got, tt.hsts)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://app.example.com"}
	h := NewChiMiddleware(cfg).CORS()(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/modes", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestBodyTooLargeMessage(t *testing.T) {
	t.Parallel()

	if got := bodyTooLargeMessage(4 << 20); got != "request body exceeds 4.0 MiB" {
		t.Errorf("message = %q", got)
	}
}
