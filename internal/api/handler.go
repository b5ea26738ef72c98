// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tripsense/internal/allocation"
	"github.com/tomtom215/tripsense/internal/logging"
	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/store"
	"github.com/tomtom215/tripsense/internal/trigger"
	"github.com/tomtom215/tripsense/internal/validation"
)

// Dependencies are the engine components the handlers serve.
type Dependencies struct {
	Sessions  *recommend.Sessions
	Triggers  *trigger.Registry
	Allocator *allocation.Allocator

	// StoreBackend is reported by the health endpoint.
	StoreBackend store.Backend

	// Store is optional; when set, health reports its circuit breaker.
	Store store.Store

	Version string
}

// Handler implements every HTTP endpoint.
type Handler struct {
	sessions  *recommend.Sessions
	triggers  *trigger.Registry
	allocator *allocation.Allocator
	backend   store.Backend
	kv        store.Store
	version   string
	startTime time.Time
}

// NewHandler creates a handler. Sessions, Triggers and Allocator are
// required.
//
//nolint:gocritic // hugeParam: dependencies are copied once at startup
func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Sessions == nil:
		return nil, errors.New("api: sessions registry is required")
	case deps.Triggers == nil:
		return nil, errors.New("api: trigger registry is required")
	case deps.Allocator == nil:
		return nil, errors.New("api: allocator is required")
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		sessions:  deps.Sessions,
		triggers:  deps.Triggers,
		allocator: deps.Allocator,
		backend:   deps.StoreBackend,
		kv:        deps.Store,
		version:   version,
		startTime: time.Now(),
	}, nil
}

// sessionIDParam returns the validated {sessionID} route parameter. On
// failure it writes the error response and returns false.
func sessionIDParam(rw *ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionID")
	if verr := validation.ValidateVar("session_id", id, "required,max=128,printascii"); verr != nil {
		rw.ValidationError(verr)
		return "", false
	}
	return id, true
}

// pathParam returns an unescaped route parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// writeEngineError maps engine errors onto HTTP responses.
func writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrTooManyCandidates):
		rw.PayloadTooLarge(err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable("request canceled")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		rw.InternalError("internal error")
	}
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).NotFound("no route for " + r.Method + " " + r.URL.Path)
}

// MethodNotAllowed is the router's fallback for known paths.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method "+r.Method+" not allowed")
}
