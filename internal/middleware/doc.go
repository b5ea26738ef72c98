// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and stores it in the
    logging context
  - SessionID: copies the {sessionID} route parameter into the logging
    context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    the chi route pattern
  - AccessLog: one structured log entry per request

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Labelling metrics by route pattern ("/api/v1/sessions/{sessionID}/...")
instead of the raw path keeps label cardinality bounded.
*/
package middleware
