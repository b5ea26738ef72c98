// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package config provides layered configuration for the tripsense server.

# Configuration Sources

Sources are applied in order, later ones overriding earlier ones:

 1. Built-in defaults taken from each component's DefaultConfig
 2. A YAML file: CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables from an explicit mapping table

Environment variables that are not in the mapping table are ignored, so
unrelated variables never leak into the configuration.

# Sections

  - server: HTTP listener, timeouts, CORS and rate limiting
  - logging: zerolog level and format
  - store: memory, badger or redis key-value backend
  - recommend: scoring modes, tie-breaking and the enrichment cache
  - triggers: proactive trigger thresholds and cooldowns
  - allocation: trip-day allocation weights and floors
  - events: proactive message publishing
  - janitor: background cleanup of expired state
  - supervisor: restart policy of the service tree

# Environment Variables

Commonly used variables:

	HTTP_HOST, HTTP_PORT            server.host, server.port
	CORS_ORIGINS                    comma-separated allowed origins
	RATE_LIMIT_REQS                 requests per window and client
	LOG_LEVEL, LOG_FORMAT           logging.level, logging.format
	STORE_BACKEND                   memory, badger or redis
	BADGER_PATH                     store.badger.path
	REDIS_ADDR, REDIS_PASSWORD      store.redis.addr, store.redis.password
	RECOMMEND_MODE                  default weighting mode
	TRIGGERS_ENABLED                proactive messages on or off
	TRIGGERS_DISABLED               comma-separated trigger types to skip
	EVENTS_TOPIC                    topic for published messages

See envTransformFunc for the full table.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
