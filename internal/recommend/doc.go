// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package recommend scores and ranks activities for "what should I do right
// now".
//
// # Architecture
//
// Six independent component models feed a weighted combiner:
//
//   - Time: internal/timeofday
//   - Distance: internal/geo
//   - Preference: internal/preference
//   - Weather: internal/weather
//   - Serendipity and Rating: computed here from activity metadata
//
// A Mode selects one of the fixed weight presets. The final score is the
// weighted sum minus a missing-data penalty, clamped to [0,1]. Confidence is
// computed separately and reflects data completeness only.
//
// # Sessions
//
// The Scorer is immutable and shared by every user. Mutable state (current
// preferences, last location, the enrichment cache and the random source used
// for surprise picks) lives in a Session, one per user session. Sessions is
// the registry the API layer uses to look them up.
//
// # Usage
//
//	scorer, err := recommend.NewScorer(recommend.DefaultConfig())
//	sessions := recommend.NewSessions(scorer, logger)
//
//	resp, err := sessions.Get("abc").Recommend(ctx, recommend.Request{
//	    Activities: places,
//	    Context:    now,
//	    Limit:      10,
//	})
//
// # Determinism
//
// Given the same seed, inputs and call sequence, a Session produces
// identical rankings and explanations.
package recommend
