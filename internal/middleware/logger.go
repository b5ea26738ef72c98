// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripsense/internal/logging"
)

// Logger stores logger in every request context so handlers and
// AccessLog pick it up through logging.Ctx.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logging.ContextWithLogger(r.Context(), logger)))
		})
	}
}
