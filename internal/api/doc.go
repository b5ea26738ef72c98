// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package api exposes the recommendation engine over HTTP.

All endpoints return the same JSON envelope:

	{
	  "success": true,
	  "data": {...},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}
	}

Errors set success to false and carry a machine-readable code:

	{
	  "success": false,
	  "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}
	}

# Routes

	GET    /health
	GET    /metrics
	GET    /api/v1/modes
	POST   /api/v1/allocations
	GET    /api/v1/sessions/{sessionID}
	DELETE /api/v1/sessions/{sessionID}
	POST   /api/v1/sessions/{sessionID}/recommendations
	GET    /api/v1/sessions/{sessionID}/preferences
	PUT    /api/v1/sessions/{sessionID}/preferences
	GET    /api/v1/sessions/{sessionID}/triggers
	POST   /api/v1/sessions/{sessionID}/triggers/evaluate
	POST   /api/v1/sessions/{sessionID}/triggers/dismissals
	GET    /api/v1/sessions/{sessionID}/triggers/dismissals/{triggerType}/{subject}
	DELETE /api/v1/sessions/{sessionID}/triggers/dismissals/{triggerType}/{subject}

Sessions are created on first use. Request bodies are validated with
go-playground/validator before they reach the engine; failures are
reported with code VALIDATION_ERROR and a per-field breakdown.
*/
package api
