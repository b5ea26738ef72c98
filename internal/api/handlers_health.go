// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreBackend   string  `json:"store_backend,omitempty"`
	StoreBreaker   string  `json:"store_breaker,omitempty"`
	Uptime         float64 `json:"uptime_seconds"`
	Started        string  `json:"started"`
	Sessions       int     `json:"sessions"`
	TriggerEngines int     `json:"trigger_engines"`
}

// ModeInfo describes one scoring mode.
type ModeInfo struct {
	Mode    recommend.Mode     `json:"mode"`
	Weights *recommend.Weights `json:"weights,omitempty"`
	Default bool               `json:"default,omitempty"`
}

// Health reports liveness and registry sizes. An open store circuit
// breaker reports the service as degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:         "healthy",
		Version:        h.version,
		StoreBackend:   string(h.backend),
		Uptime:         time.Since(h.startTime).Seconds(),
		Started:        humanize.Time(h.startTime),
		Sessions:       h.sessions.Len(),
		TriggerEngines: h.triggers.Len(),
	}
	if h.kv != nil {
		if state := store.BreakerState(h.kv); state != store.BreakerDisabled {
			status.StoreBreaker = state
			if state == "open" {
				status.Status = "degraded"
			}
		}
	}
	NewResponseWriter(w, r).Success(status)
}

// Modes lists the scoring modes with their preset weights. Custom mode has
// no preset and uses the configured or requested weights.
func (h *Handler) Modes(w http.ResponseWriter, r *http.Request) {
	def := h.sessions.Scorer().Config().Mode
	modes := append(recommend.Modes(), recommend.ModeCustom)
	out := make([]ModeInfo, 0, len(modes))
	for _, m := range modes {
		info := ModeInfo{Mode: m, Default: m == def}
		if weights, ok := recommend.Preset(m); ok {
			info.Weights = &weights
		}
		out = append(out, info)
	}
	NewResponseWriter(w, r).Success(out)
}
