// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package models

import "time"

// Component names a scoring dimension.
type Component string

const (
	ComponentTime        Component = "time"
	ComponentDistance    Component = "distance"
	ComponentPreference  Component = "preference"
	ComponentSerendipity Component = "serendipity"
	ComponentRating      Component = "rating"
	ComponentWeather     Component = "weather"

	// Pseudo components used only by explanations.
	ComponentItinerary Component = "itinerary"
	ComponentDefault   Component = "default"
)

// ScoreComponent is one weighted input to the final score.
type ScoreComponent struct {
	Name Component `json:"name"`

	// Value is the component score in [0,1].
	Value float64 `json:"value"`

	// Weight is the mode weight applied to Value.
	Weight float64 `json:"weight"`

	// Contribution is Value x Weight.
	Contribution float64 `json:"contribution"`

	// Reason is an optional human-readable explanation.
	Reason string `json:"reason,omitempty"`
}

// ScoreBreakdown is the full explanation of a final score.
type ScoreBreakdown struct {
	Components []ScoreComponent `json:"components"`

	// Penalty is the missing-data penalty subtracted from the weighted sum.
	Penalty float64 `json:"penalty"`

	FinalScore float64 `json:"final_score"`
	Confidence float64 `json:"confidence"`
	Mode       string  `json:"mode"`

	// DistanceMeters is -1 when either location is unknown.
	DistanceMeters float64 `json:"distance_meters"`

	// Urgency carries a weather-driven urgency hint, if any.
	Urgency string `json:"urgency,omitempty"`

	// Surprise marks the randomized serendipity pick.
	Surprise bool `json:"surprise,omitempty"`
}

// Component returns the named component, if present.
func (b *ScoreBreakdown) Component(name Component) (ScoreComponent, bool) {
	for _, c := range b.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ScoreComponent{}, false
}

// Value returns the value of the named component, or 0.
func (b *ScoreBreakdown) Value(name Component) float64 {
	c, _ := b.Component(name)
	return c.Value
}

// Reason is one explanation line and the component it came from.
type Reason struct {
	Category Component `json:"category"`
	Text     string    `json:"text"`
}

// TipSource says where a tip came from.
type TipSource string

const (
	TipHiddenGem TipSource = "hidden_gem"
	TipPopular   TipSource = "popular"
	TipCategory  TipSource = "category"
)

// WhyNowReason explains why an activity is suggested right now.
type WhyNowReason struct {
	Primary         string    `json:"primary"`
	PrimaryCategory Component `json:"primary_category"`
	Secondary       *Reason   `json:"secondary,omitempty"`
	Urgency         string    `json:"urgency,omitempty"`
	Tip             string    `json:"tip,omitempty"`
	TipSource       TipSource `json:"tip_source,omitempty"`

	// UrgencyExpiresAt is zero when there is no urgency.
	UrgencyExpiresAt time.Time `json:"urgency_expires_at,omitempty"`
}

// ScoredActivity pairs an activity with its score and explanation.
type ScoredActivity struct {
	Activity  Activity       `json:"activity"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Why       *WhyNowReason  `json:"why,omitempty"`

	// Rank is 1-based and only set after ranking.
	Rank int `json:"rank"`
}
