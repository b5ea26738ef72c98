// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package main is the entry point for the Tripsense server.

Tripsense ranks candidate activities for a traveller's present moment,
explains why each one fits right now, raises proactive suggestions when
the weather or the clock makes them timely, and splits a trip's days
across its cities.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("tripsense")
	├── DataSupervisor ("data-layer")
	│   └── Janitor (store purge, idle sessions, trigger engines, caches)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event log (proactive message consumer, when events are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Component initialization order:

 1. Environment: optional .env file (joho/godotenv)
 2. Configuration: Koanf v2 with defaults, config file and environment
 3. Logging: zerolog with JSON/console output modes
 4. Store: memory, BadgerDB or Redis for dismissals and venue memory
 5. Engine: scorer, session registry, trigger registry, allocator
 6. Events: Watermill in-process publisher for proactive messages
 7. Supervisor Tree: janitor, event log and HTTP server

# Configuration

Configuration is layered (highest priority wins):
  - Environment variables (HTTP_PORT, STORE_BACKEND, RECOMMEND_MODE, ...)
  - Config file (config.yaml, or the path in CONFIG_PATH)
  - Built-in defaults

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests within the shutdown
timeout, and the store and publisher are closed last.

# Example Usage

	STORE_BACKEND=badger BADGER_PATH=/var/lib/tripsense ./tripsense

	curl -s localhost:8080/api/v1/sessions/trip-1/recommendations \
	  -d '{"context":{"hour":19,"location":{"lat":41.9,"lon":12.5}},"activities":[...]}'
*/
package main
