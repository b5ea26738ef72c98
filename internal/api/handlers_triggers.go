// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/tripsense/internal/logging"
	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/trigger"
	"github.com/tomtom215/tripsense/internal/validation"
)

// EvaluateResponse lists the proactive messages that fired.
type EvaluateResponse struct {
	Messages []*models.ProactiveMessage `json:"messages"`
}

// TriggerStatus reports one registered trigger.
type TriggerStatus struct {
	Type      models.TriggerType `json:"type"`
	LastFired *time.Time         `json:"last_fired,omitempty"`
}

// DismissalStatus reports whether a subject is dismissed.
type DismissalStatus struct {
	Type      models.TriggerType `json:"type"`
	Subject   string             `json:"subject"`
	Dismissed bool               `json:"dismissed"`
}

// engine returns the session's trigger engine and keeps the session alive
// while the user only interacts with proactive messages.
func (h *Handler) engine(id string) *trigger.Engine {
	h.sessions.Get(id).Touch()
	return h.triggers.Get(id)
}

// EvaluateTriggers runs every trigger against the posted context.
func (h *Handler) EvaluateTriggers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	var req EvaluateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	sess := h.sessions.Get(id)
	sess.Touch()

	c := req.Context.toModel()
	msgs, err := h.triggers.Get(id).Evaluate(r.Context(), &c, sess.Preferences(), normalizeActivities(req.Activities))
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	if msgs == nil {
		msgs = []*models.ProactiveMessage{}
	}
	rw.Success(EvaluateResponse{Messages: msgs})
}

// ListMessages returns the session's unexpired proactive messages,
// including dismissed ones.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}
	rw.Success(h.engine(id).Messages(time.Now()))
}

// ListTriggers reports the session's triggers and when each last fired.
func (h *Handler) ListTriggers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	e := h.engine(id)
	types := e.Triggers()
	out := make([]TriggerStatus, 0, len(types))
	for _, t := range types {
		status := TriggerStatus{Type: t}
		if ts, fired := e.LastFired(t); fired {
			status.LastFired = &ts
		}
		out = append(out, status)
	}
	rw.Success(out)
}

// Dismiss silences a trigger for one subject.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}

	var req DismissRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if err := h.engine(id).Dismiss(r.Context(), req.Type, req.Subject); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to persist dismissal")
		rw.ServiceUnavailable("dismissal store unavailable")
		return
	}
	rw.Created(DismissalStatus{Type: req.Type, Subject: req.Subject, Dismissed: true})
}

// dismissalParams reads and validates {triggerType} and {subject}.
func dismissalParams(rw *ResponseWriter, r *http.Request) (models.TriggerType, string, bool) {
	t := pathParam(r, "triggerType")
	if verr := validation.ValidateVar("type", t, "required,trigger"); verr != nil {
		rw.ValidationError(verr)
		return "", "", false
	}
	subject := pathParam(r, "subject")
	if verr := validation.ValidateVar("subject", subject, "required,max=256"); verr != nil {
		rw.ValidationError(verr)
		return "", "", false
	}
	return models.TriggerType(t), subject, true
}

// GetDismissal reports whether a subject is dismissed.
func (h *Handler) GetDismissal(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}
	t, subject, ok := dismissalParams(rw, r)
	if !ok {
		return
	}

	dismissed, err := h.engine(id).IsDismissed(r.Context(), t, subject)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to read dismissal")
		rw.ServiceUnavailable("dismissal store unavailable")
		return
	}
	rw.Success(DismissalStatus{Type: t, Subject: subject, Dismissed: dismissed})
}

// ClearDismissal re-enables a dismissed subject. Clearing a subject that
// was never dismissed succeeds.
func (h *Handler) ClearDismissal(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := sessionIDParam(rw, r)
	if !ok {
		return
	}
	t, subject, ok := dismissalParams(rw, r)
	if !ok {
		return
	}

	if err := h.engine(id).ClearDismissal(r.Context(), t, subject); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to clear dismissal")
		rw.ServiceUnavailable("dismissal store unavailable")
		return
	}
	rw.NoContent()
}
