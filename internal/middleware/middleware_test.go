// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/tripsense/internal/logging"
	"github.com/tomtom215/tripsense/internal/metrics"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generates when missing", "", false},
		{"keeps upstream id", "req-from-proxy-1", true},
		{"replaces id with spaces", "bad id", false},
		{"replaces oversized id", strings.Repeat("a", maxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = logging.RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if seen == "" {
				t.Fatal("request id missing from context")
			}
			if got := rec.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response header %q != context id %q", got, seen)
			}
			if tt.keep && seen != tt.incoming {
				t.Errorf("id = %q, want upstream %q", seen, tt.incoming)
			}
			if !tt.keep && seen == tt.incoming {
				t.Errorf("id %q should have been replaced", seen)
			}
		})
	}
}

func TestSessionID(t *testing.T) {
	t.Parallel()

	var seen string
	r := chi.NewRouter()
	r.With(SessionID).Get("/sessions/{sessionID}", func(_ http.ResponseWriter, r *http.Request) {
		seen = logging.SessionIDFromContext(r.Context())
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/trip-42", nil))
	if seen != "trip-42" {
		t.Errorf("session id = %q, want trip-42", seen)
	}
}

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	t.Parallel()

	const pattern = "/test-metrics/{id}"
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, pattern, "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test-metrics/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("counter delta for %s = %v, want 2", pattern, got)
	}
}

func TestPrometheusMetrics_DefaultStatus(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/test-metrics-implicit", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/test-metrics-implicit", "200")
	before := testutil.ToFloat64(counter)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test-metrics-implicit", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("counter delta = %v, want 1", got)
	}
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := logging.NewTestLogger(&buf)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(AccessLog)
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"request_id":`, `"route":"/boom"`, `"status":500`, "request completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log %q missing %s", out, want)
		}
	}
}
