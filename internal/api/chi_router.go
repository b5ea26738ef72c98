// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(handler *Handler, mw *ChiMiddleware, logger zerolog.Logger) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		logger:        logger.With().Str("component", "http").Logger(),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order. AccessLog sits outside
	// Recoverer so recovered panics are logged with status 500.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(router.logger))
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(router.chiMiddleware.SecurityHeaders())

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(router.chiMiddleware.BodyLimit())

		r.Get("/modes", router.handler.Modes)
		r.Post("/allocations", router.handler.Allocate)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(middleware.SessionID)

			r.Get("/", router.handler.GetSession)
			r.Delete("/", router.handler.DeleteSession)
			r.Post("/recommendations", router.handler.Recommend)
			r.Get("/preferences", router.handler.GetPreferences)
			r.Put("/preferences", router.handler.UpdatePreferences)

			r.Route("/triggers", func(r chi.Router) {
				r.Get("/", router.handler.ListTriggers)
				r.Post("/evaluate", router.handler.EvaluateTriggers)
				r.Get("/messages", router.handler.ListMessages)
				r.Post("/dismissals", router.handler.Dismiss)
				r.Get("/dismissals/{triggerType}/{subject}", router.handler.GetDismissal)
				r.Delete("/dismissals/{triggerType}/{subject}", router.handler.ClearDismissal)
			})
		})
	})

	return r
}
