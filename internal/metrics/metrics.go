// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package metrics exposes Prometheus instrumentation for the recommendation
// engine, the proactive trigger engine, the trip allocator, the KV store and
// the HTTP API. Metrics are served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_recommend_requests_total",
			Help: "Total number of ranking requests by mode",
		},
		[]string{"mode"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tripsense_recommend_duration_seconds",
			Help:    "Time to score and rank a candidate set",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tripsense_recommend_candidates",
			Help:    "Number of candidate activities per ranking request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	EnrichmentCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripsense_enrichment_cache_hits_total",
			Help: "Total number of enrichment cache hits",
		},
	)

	EnrichmentCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripsense_enrichment_cache_misses_total",
			Help: "Total number of enrichment cache misses",
		},
	)

	EnrichmentCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_enrichment_cache_invalidations_total",
			Help: "Total number of enrichment cache invalidations by cause",
		},
		[]string{"cause"}, // "location", "preferences", "weather", "manual"
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripsense_active_sessions",
			Help: "Number of live recommendation sessions",
		},
	)

	// Trigger Metrics
	TriggersFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_triggers_fired_total",
			Help: "Total number of proactive messages generated by trigger type",
		},
		[]string{"trigger"},
	)

	TriggersSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_triggers_suppressed_total",
			Help: "Total number of trigger firings suppressed by reason",
		},
		[]string{"trigger", "reason"}, // "cooldown", "dismissed", "recently_suggested", "store_error"
	)

	// Allocation Metrics
	AllocationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_allocation_requests_total",
			Help: "Total number of trip-day allocation requests by outcome",
		},
		[]string{"outcome"}, // "success", "invalid"
	)

	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_store_operations_total",
			Help: "Total number of KV store operations",
		},
		[]string{"backend", "operation", "outcome"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tripsense_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_circuit_breaker_requests_total",
			Help: "Total number of requests through a circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_events_published_total",
			Help: "Total number of proactive messages published downstream",
		},
		[]string{"outcome"},
	)

	EventsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tripsense_events_delivered_total",
			Help: "Total number of proactive messages consumed from the topic",
		},
	)

	// Janitor Metrics
	JanitorRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_janitor_removed_total",
			Help: "Total number of expired items removed by cleanup tasks",
		},
		[]string{"task"},
	)

	JanitorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_janitor_errors_total",
			Help: "Total number of failed cleanup task runs",
		},
		[]string{"task"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripsense_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripsense_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripsense_http_requests_in_flight",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tripsense_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordRecommend records one ranking request.
func RecordRecommend(mode string, candidates int, duration time.Duration) {
	RecommendRequests.WithLabelValues(mode).Inc()
	RecommendCandidates.Observe(float64(candidates))
	RecommendDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records a KV store call and whether it failed.
func RecordStoreOperation(backend, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StoreOperations.WithLabelValues(backend, operation, outcome).Inc()
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
