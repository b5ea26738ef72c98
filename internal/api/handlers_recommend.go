// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tripsense/internal/cache"
	"github.com/tomtom215/tripsense/internal/logging"
	"github.com/tomtom215/tripsense/internal/models"
)

// SessionInfo describes a live session.
type SessionInfo struct {
	ID             string      `json:"id"`
	LastSeen       time.Time   `json:"last_seen"`
	RequestCount   int64       `json:"request_count"`
	HasPreferences bool        `json:"has_preferences"`
	Cache          cache.Stats `json:"cache"`
}

// PreferencesResponse is the flattened preference profile of a session.
// Configured is false until preferences have been set; the remaining fields
// are then zero. Collections are always encoded as arrays and objects.
type PreferencesResponse struct {
	Configured          bool                  `json:"configured"`
	InterestWeights     map[string]float64    `json:"interest_weights"`
	SpecificInterests   []models.InterestTag  `json:"specific_interests"`
	Avoidances          []models.AvoidanceTag `json:"avoidances"`
	Budget              models.BudgetLevel    `json:"budget,omitempty"`
	DiningStyle         models.DiningStyle    `json:"dining_style,omitempty"`
	PrefersHiddenGems   bool                  `json:"prefers_hidden_gems"`
	HiddenGemConfidence float64               `json:"hidden_gem_confidence"`
	Confidence          float64               `json:"confidence"`
}

func newPreferencesResponse(p *models.UserPreferences) PreferencesResponse {
	resp := PreferencesResponse{
		InterestWeights:   map[string]float64{},
		SpecificInterests: []models.InterestTag{},
		Avoidances:        []models.AvoidanceTag{},
	}
	if p == nil {
		return resp
	}
	resp.Configured = true
	for k, v := range p.InterestWeights {
		resp.InterestWeights[string(k)] = v
	}
	resp.SpecificInterests = append(resp.SpecificInterests, p.SpecificInterests...)
	resp.Avoidances = append(resp.Avoidances, p.Avoidances...)
	resp.Budget = p.Budget
	resp.DiningStyle = p.DiningStyle
	resp.PrefersHiddenGems = p.PrefersHiddenGems
	resp.HiddenGemConfidence = p.HiddenGemConfidence
	resp.Confidence = p.Confidence
	return resp
}

// Recommend ranks the posted candidates for the session.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	var req RecommendRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	resp, err := h.sessions.Get(id).Recommend(r.Context(), req.toModel(logging.RequestIDFromContext(r.Context())))
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.Success(resp)
}

// GetSession reports a session's activity. Unknown sessions are 404.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	s, found := h.sessions.Lookup(id)
	if !found {
		rw.NotFound("session not found")
		return
	}
	rw.Success(SessionInfo{
		ID:             s.ID(),
		LastSeen:       s.LastSeen(),
		RequestCount:   s.RequestCount(),
		HasPreferences: s.Preferences() != nil,
		Cache:          s.CacheStats(),
	})
}

// DeleteSession drops the session and its trigger engine. Persisted
// dismissals survive.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	removed := h.sessions.Remove(id)
	if h.triggers.Remove(id) {
		removed = true
	}
	if !removed {
		rw.NotFound("session not found")
		return
	}
	logging.Ctx(r.Context()).Info().Msg("session deleted")
	rw.NoContent()
}

// GetPreferences returns the session's preference profile.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	s, found := h.sessions.Lookup(id)
	if !found {
		rw.NotFound("session not found")
		return
	}
	rw.Success(newPreferencesResponse(s.Preferences()))
}

// UpdatePreferences replaces the session's preference profile. Cached
// scores are invalidated by the session.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	var req PreferencesRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	s := h.sessions.Get(id)
	s.SetPreferences(req.toModel())
	rw.Success(newPreferencesResponse(s.Preferences()))
}
