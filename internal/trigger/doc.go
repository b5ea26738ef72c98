// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package trigger raises proactive suggestions ("rain is coming, the museum
// round the corner is a dry option") without the user asking.
//
// # Evaluation
//
// The engine polls: on every context refresh each registered Trigger is
// checked in turn. A trigger that fired within its cooldown is skipped
// without evaluating its condition. Otherwise, when its condition holds, it
// generates one ProactiveMessage.
//
// Candidates are classified and scored with the recommendation scorer before
// any rule runs. Activities the user completed, skipped or avoids are
// dropped, and a rule that names a venue picks the highest scoring match.
// Weather thresholds come from the scorer's weather model.
//
// # Dismissals and suggestion memory
//
// Dismissals are stored in the key-value store under
//
//	dismissed:<session>:<trigger>:<subject>
//
// without expiry; a dismissed subject never fires again until
// ClearDismissal. Dining triggers also remember the venues they proposed
// under suggested:<city>:<place> for an extended cooldown so the same
// restaurant is not pushed twice in one trip.
//
// Store failures never fail an evaluation: the affected trigger is skipped
// and the error is logged.
package trigger
