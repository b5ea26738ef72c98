// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"errors"
	"time"

	"github.com/tomtom215/tripsense/internal/models"
)

// ErrTooManyCandidates is returned when a request exceeds
// Limits.MaxCandidates.
var ErrTooManyCandidates = errors.New("too many candidate activities")

// Request is a ranking request for one session.
type Request struct {
	// RequestID is propagated into logs and response metadata.
	RequestID string `json:"request_id,omitempty"`

	// Activities is the candidate set.
	Activities []models.Activity `json:"activities"`

	// Context is the user's present moment.
	Context models.Context `json:"context"`

	// Mode selects the weight preset. Empty uses the configured default.
	Mode Mode `json:"mode,omitempty"`

	// CustomWeights apply in custom mode and override the configured ones.
	CustomWeights *Weights `json:"custom_weights,omitempty"`

	// Limit caps the number of results. Zero uses the configured default.
	Limit int `json:"limit,omitempty"`
}

// Response contains ranked activities and request metadata.
type Response struct {
	Items    []models.ScoredActivity `json:"items"`
	Metadata Metadata                `json:"metadata"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	RequestID string  `json:"request_id,omitempty"`
	Mode      Mode    `json:"mode"`
	Weights   Weights `json:"weights"`

	// Candidates is the size of the incoming candidate set.
	Candidates int `json:"candidates"`

	// Excluded counts completed and avoided activities.
	Excluded int `json:"excluded"`

	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`

	// SurpriseID is the activity chosen as the serendipity pick, if any.
	SurpriseID string `json:"surprise_id,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
	LatencyMS   int64     `json:"latency_ms"`
}
