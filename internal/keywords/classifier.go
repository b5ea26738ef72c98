// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package keywords

import "github.com/tomtom215/tripsense/internal/models"

// Classifier computes activity capabilities from the keyword tables. It is
// built once and shared by every session.
type Classifier struct {
	nightlife    *Matcher
	lateNight    *Matcher
	daylightOnly *Matcher
	earlyOpen    *Matcher
	outdoor      *Matcher
	indoor       *Matcher
	cooling      *Matcher
	warming      *Matcher
	viewpoint    *Matcher
	scenic       *Matcher
}

// NewClassifier compiles the tables into matchers.
func NewClassifier(t *Tables) *Classifier {
	return &Classifier{
		nightlife:    NewMatcher(t.Nightlife),
		lateNight:    NewMatcher(t.LateNight),
		daylightOnly: NewMatcher(t.DaylightOnly),
		earlyOpen:    NewMatcher(t.EarlyOpen),
		outdoor:      NewMatcher(t.Outdoor),
		indoor:       NewMatcher(t.Indoor),
		cooling:      NewMatcher(t.Cooling),
		warming:      NewMatcher(t.Warming),
		viewpoint:    NewMatcher(t.Viewpoint),
		scenic:       NewMatcher(t.Scenic),
	}
}

// indoorByDefault lists categories that happen indoors unless the text says
// otherwise.
var indoorByDefault = map[models.Category]bool{
	models.CategoryDining:    true,
	models.CategoryCulture:   true,
	models.CategoryNightlife: true,
	models.CategoryShopping:  true,
	models.CategoryWellness:  true,
}

// Classify computes the capability set of a single activity.
func (c *Classifier) Classify(a *models.Activity) models.Capabilities {
	text := a.SearchText()

	caps := models.Capabilities{
		Computed:     true,
		Nightlife:    c.nightlife.Contains(text),
		LateNight:    c.lateNight.Contains(text),
		DaylightOnly: c.daylightOnly.Contains(text),
		EarlyOpen:    c.earlyOpen.Contains(text),
		Cooling:      c.cooling.Contains(text),
		Warming:      c.warming.Contains(text),
		Viewpoint:    c.viewpoint.Contains(text),
		Scenic:       c.scenic.Contains(text),
	}

	outdoorHit := c.outdoor.Contains(text)
	indoorHit := c.indoor.Contains(text)
	switch {
	case outdoorHit || indoorHit:
		caps.Outdoor = outdoorHit
		caps.Indoor = indoorHit
	case a.Category == models.CategoryNature:
		caps.Outdoor = true
	case indoorByDefault[a.Category]:
		caps.Indoor = true
	}
	if caps.Viewpoint && !caps.Indoor {
		caps.Outdoor = true
	}
	return caps
}

// Ensure returns a with its capability set populated. Already classified
// activities are returned unchanged, so activities from clients go through
// Ingest instead.
func (c *Classifier) Ensure(a models.Activity) models.Activity {
	if a.Capabilities.Computed {
		return a
	}
	a.Capabilities = c.Classify(&a)
	return a
}

// Ingest classifies a catalog from an untrusted source. Capabilities
// supplied with the activities are discarded and recomputed. The input
// slice is not modified.
func (c *Classifier) Ingest(activities []models.Activity) []models.Activity {
	out := make([]models.Activity, len(activities))
	for i := range activities {
		out[i] = activities[i]
		out[i].Capabilities = c.Classify(&out[i])
	}
	return out
}
