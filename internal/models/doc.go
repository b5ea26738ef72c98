// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

/*
Package models defines the plain records exchanged between the scoring
models, the proactive trigger engine, the trip allocator and the HTTP API.

Key Components:

  - Activity: a place or experience a traveller can do right now
  - UserPreferences: interest weights, specific interests, avoidances, budget
  - Context: the user's current hour, location, weather and trip progress
  - ScoreBreakdown: per-component contributions behind a final score
  - WhyNowReason: the human-readable explanation attached to a recommendation
  - ProactiveMessage: a time-bounded suggestion raised by a trigger

Records in this package carry no behaviour beyond parsing fixed vocabularies
and small helpers. Activities are treated as immutable snapshots: scoring code
never mutates them, and the capability set is computed once when a catalog is
ingested (see package keywords).
*/
package models
