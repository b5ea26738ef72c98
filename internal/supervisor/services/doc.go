// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package services provides suture.Service wrappers for tripsense components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Added to the API layer

Janitor (JanitorService):
  - Runs cleanup tasks on a fixed interval: expired store entries, idle
    sessions and their trigger engines, stale enrichment cache entries
  - Added to the data layer

Event Log (EventLogService):
  - Subscribes to the proactive message topic and logs every delivery
  - Added to the messaging layer

All services return ctx.Err() on cancellation and implement fmt.Stringer
so suture can name them in its event log.
*/
package services
