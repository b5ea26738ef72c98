// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package models

import "time"

// TriggerType identifies a proactive trigger rule.
type TriggerType string

const (
	TriggerRainIncoming      TriggerType = "rain_incoming"
	TriggerPerfectWeather    TriggerType = "perfect_weather"
	TriggerHeatWarning       TriggerType = "heat_warning"
	TriggerGoldenHour        TriggerType = "golden_hour"
	TriggerStormWarning      TriggerType = "storm_warning"
	TriggerMealTime          TriggerType = "meal_time"
	TriggerPopularRestaurant TriggerType = "popular_restaurant"
)

// Priority orders proactive messages for display.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns a sortable value; higher is more important.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ActionType is what a message's call to action does.
type ActionType string

const (
	ActionViewActivity ActionType = "view_activity"
	ActionFindIndoor   ActionType = "find_indoor"
	ActionAcknowledge  ActionType = "acknowledge"
)

// MessageAction is the call to action shown with a message.
type MessageAction struct {
	Type  ActionType `json:"type"`
	Label string     `json:"label"`

	// ActivityID is set for ActionViewActivity.
	ActivityID string `json:"activity_id,omitempty"`
}

// ProactiveMessage is a suggestion the app raises without being asked.
type ProactiveMessage struct {
	ID       string      `json:"id"`
	Type     TriggerType `json:"type"`
	Priority Priority    `json:"priority"`
	Title    string      `json:"title"`
	Body     string      `json:"body"`

	// Subject is the dismissal subject (place id, date or condition).
	Subject string `json:"subject"`

	// RelatedActivityID is empty when the message is not about one place.
	RelatedActivityID string `json:"related_activity_id,omitempty"`

	Action *MessageAction `json:"action,omitempty"`

	// Dismissed is set once the user dismisses the message's subject.
	Dismissed bool `json:"dismissed"`

	SessionID string    `json:"session_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the message is past its expiry at now.
func (m *ProactiveMessage) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt)
}
