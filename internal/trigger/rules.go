// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package trigger

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tomtom215/tripsense/internal/geo"
	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/weather"
)

// DefaultTriggers builds every built-in rule not disabled in cfg. Weather
// thresholds come from wx.
//
//nolint:gocritic // hugeParam: cfg is read once at construction
func DefaultTriggers(cfg Config, wx *weather.Model) []Trigger {
	all := []Trigger{
		&StormWarning{cfg: cfg},
		&RainIncoming{cfg: cfg, wx: wx},
		&HeatWarning{cfg: cfg, wx: wx},
		&PerfectWeather{cfg: cfg, wx: wx},
		&GoldenHour{cfg: cfg},
		&MealTime{cfg: cfg},
		&PopularRestaurant{cfg: cfg},
	}
	out := make([]Trigger, 0, len(all))
	for _, t := range all {
		if !cfg.disabled(t.Type()) {
			out = append(out, t)
		}
	}
	return out
}

// RainIncoming warns that rain is likely but not yet falling.
type RainIncoming struct {
	cfg Config
	wx  *weather.Model
}

func (t *RainIncoming) Type() models.TriggerType  { return models.TriggerRainIncoming }
func (t *RainIncoming) Priority() models.Priority { return models.PriorityHigh }
func (t *RainIncoming) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), 2*time.Hour)
}

func (t *RainIncoming) Condition(in *Input) bool {
	return t.wx.RainLikely(in.Weather())
}

func (t *RainIncoming) Generate(in *Input) *models.ProactiveMessage {
	w := in.Weather()
	msg := &models.ProactiveMessage{
		Title:     "Rain on the way",
		Body:      fmt.Sprintf("There's a %.0f%% chance of rain soon. Outdoor plans are best done now.", w.PrecipitationChance),
		Subject:   in.DaySubject(),
		ExpiresAt: in.Now.Add(2 * time.Hour),
		Action:    &models.MessageAction{Type: models.ActionFindIndoor, Label: "Find something indoors"},
	}
	if a := best(in, indoor); a != nil {
		msg.Body = fmt.Sprintf("There's a %.0f%% chance of rain soon. %s is a dry option nearby.", w.PrecipitationChance, a.Name)
		msg.RelatedActivityID = a.ID
		msg.Action = viewAction(a, "Head there now")
	}
	return msg
}

// PerfectWeather nudges the user outside when it is fair and comfortable.
type PerfectWeather struct {
	cfg Config
	wx  *weather.Model
}

func (t *PerfectWeather) Type() models.TriggerType  { return models.TriggerPerfectWeather }
func (t *PerfectWeather) Priority() models.Priority { return models.PriorityMedium }
func (t *PerfectWeather) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), 4*time.Hour)
}

func (t *PerfectWeather) Condition(in *Input) bool {
	return t.wx.IsPerfect(in.Weather()) && best(in, outdoor) != nil
}

func (t *PerfectWeather) Generate(in *Input) *models.ProactiveMessage {
	a := best(in, outdoor)
	if a == nil {
		return nil
	}
	return &models.ProactiveMessage{
		Title:             "Perfect weather right now",
		Body:              fmt.Sprintf("%.0f°C and clear. A great moment for %s.", in.Weather().TemperatureC, a.Name),
		Subject:           in.DaySubject(),
		RelatedActivityID: a.ID,
		Action:            viewAction(a, "Go outside"),
		ExpiresAt:         in.Now.Add(3 * time.Hour),
	}
}

// HeatWarning flags dangerous heat and points at somewhere to cool off.
type HeatWarning struct {
	cfg Config
	wx  *weather.Model
}

func (t *HeatWarning) Type() models.TriggerType  { return models.TriggerHeatWarning }
func (t *HeatWarning) Priority() models.Priority { return models.PriorityHigh }
func (t *HeatWarning) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), 3*time.Hour)
}

func (t *HeatWarning) Condition(in *Input) bool {
	return t.wx.IsHot(in.Weather())
}

func (t *HeatWarning) Generate(in *Input) *models.ProactiveMessage {
	msg := &models.ProactiveMessage{
		Title:     "It's very hot out",
		Body:      fmt.Sprintf("%.0f°C right now. Stay hydrated and seek shade.", in.Weather().TemperatureC),
		Subject:   in.DaySubject(),
		ExpiresAt: in.Now.Add(3 * time.Hour),
		Action:    &models.MessageAction{Type: models.ActionFindIndoor, Label: "Find somewhere cool"},
	}
	if a := best(in, func(a *models.Activity) bool { return a.Capabilities.Cooling }); a != nil {
		msg.Body = fmt.Sprintf("%.0f°C right now. %s is a good place to cool off.", in.Weather().TemperatureC, a.Name)
		msg.RelatedActivityID = a.ID
		msg.Action = viewAction(a, "Cool off there")
	}
	return msg
}

// GoldenHour fires shortly before sunset when a scenic spot is available.
type GoldenHour struct{ cfg Config }

func (t *GoldenHour) Type() models.TriggerType  { return models.TriggerGoldenHour }
func (t *GoldenHour) Priority() models.Priority { return models.PriorityMedium }
func (t *GoldenHour) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), 24*time.Hour)
}

func (t *GoldenHour) Condition(in *Input) bool {
	w := in.Weather()
	if w == nil || !w.Condition.IsFair() || w.Sunset.IsZero() {
		return false
	}
	if !w.Sunrise.IsZero() && in.Now.Before(w.Sunrise) {
		return false
	}
	until := w.Sunset.Sub(in.Now)
	if until <= 0 || until > t.cfg.GoldenHourLead {
		return false
	}
	return best(in, scenic) != nil
}

func (t *GoldenHour) Generate(in *Input) *models.ProactiveMessage {
	a := best(in, scenic)
	if a == nil {
		return nil
	}
	minutes := int(math.Round(in.Weather().Sunset.Sub(in.Now).Minutes()))
	return &models.ProactiveMessage{
		Title:             "Golden hour is coming",
		Body:              fmt.Sprintf("Sunset in %d min. %s has the view for it.", minutes, a.Name),
		Subject:           in.DaySubject(),
		RelatedActivityID: a.ID,
		Action:            viewAction(a, "Catch the sunset"),
		ExpiresAt:         in.Weather().Sunset,
	}
}

// StormWarning fires while a storm is active.
type StormWarning struct{ cfg Config }

func (t *StormWarning) Type() models.TriggerType  { return models.TriggerStormWarning }
func (t *StormWarning) Priority() models.Priority { return models.PriorityHigh }
func (t *StormWarning) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), time.Hour)
}

func (t *StormWarning) Condition(in *Input) bool {
	return weather.IsStorm(in.Weather())
}

func (t *StormWarning) Generate(in *Input) *models.ProactiveMessage {
	msg := &models.ProactiveMessage{
		Title:     "Storm warning",
		Body:      "A storm is passing through. Please stay indoors until it clears.",
		Subject:   in.DaySubject(),
		ExpiresAt: in.Now.Add(time.Hour),
		Action:    &models.MessageAction{Type: models.ActionAcknowledge, Label: "Got it"},
	}
	if a := best(in, indoor); a != nil {
		msg.Body = fmt.Sprintf("A storm is passing through. %s is a safe place to wait it out.", a.Name)
		msg.RelatedActivityID = a.ID
		msg.Action = viewAction(a, "Shelter there")
	}
	return msg
}

// MealTime proposes a restaurant shortly before lunch or dinner.
type MealTime struct{ cfg Config }

func (t *MealTime) Type() models.TriggerType  { return models.TriggerMealTime }
func (t *MealTime) Priority() models.Priority { return models.PriorityMedium }
func (t *MealTime) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), 3*time.Hour)
}

// SuggestionTTL implements Suggester.
func (t *MealTime) SuggestionTTL() time.Duration { return t.cfg.MealMemory }

// meal reads hour and minute from the evaluation instant.
func (t *MealTime) meal(in *Input) string {
	now := At(in.Now.Hour(), in.Now.Minute())
	switch {
	case t.cfg.LunchWindow.Contains(now):
		return "lunch"
	case t.cfg.DinnerWindow.Contains(now):
		return "dinner"
	default:
		return ""
	}
}

func (t *MealTime) Condition(in *Input) bool {
	return t.meal(in) != "" && t.pick(in) != nil
}

func (t *MealTime) pick(in *Input) *models.Activity {
	return best(in, func(a *models.Activity) bool {
		return openDining(a) && in.Eligible(t.Type(), a.ID, true)
	})
}

func (t *MealTime) Generate(in *Input) *models.ProactiveMessage {
	meal := t.meal(in)
	a := t.pick(in)
	if meal == "" || a == nil {
		return nil
	}
	body := fmt.Sprintf("%s time is coming up. How about %s?", capitalize(meal), a.Name)
	if d := distanceText(in, a); d != "" {
		body = fmt.Sprintf("%s time is coming up. How about %s? %s.", capitalize(meal), a.Name, d)
	}
	return &models.ProactiveMessage{
		Title:             fmt.Sprintf("Hungry? It's almost %s", meal),
		Body:              body,
		Subject:           a.ID,
		RelatedActivityID: a.ID,
		Action:            viewAction(a, "See the menu"),
		ExpiresAt:         in.Now.Add(90 * time.Minute),
	}
}

// PopularRestaurant points at a much-loved restaurant within walking range.
type PopularRestaurant struct{ cfg Config }

func (t *PopularRestaurant) Type() models.TriggerType  { return models.TriggerPopularRestaurant }
func (t *PopularRestaurant) Priority() models.Priority { return models.PriorityLow }
func (t *PopularRestaurant) Cooldown() time.Duration {
	return t.cfg.cooldown(t.Type(), 6*time.Hour)
}

// SuggestionTTL implements Suggester.
func (t *PopularRestaurant) SuggestionTTL() time.Duration { return t.cfg.PopularMemory }

func (t *PopularRestaurant) pick(in *Input) *models.Activity {
	if in.Context == nil || in.Context.Location == nil {
		return nil
	}
	user := *in.Context.Location
	return best(in, func(a *models.Activity) bool {
		if !openDining(a) || a.Location == nil || a.Rating == nil {
			return false
		}
		if *a.Rating < t.cfg.PopularRating || a.ReviewCount < t.cfg.PopularReviews {
			return false
		}
		if geo.Distance(user, *a.Location) > t.cfg.PopularRadiusM {
			return false
		}
		return in.Eligible(t.Type(), a.ID, true)
	})
}

func (t *PopularRestaurant) Condition(in *Input) bool {
	return t.pick(in) != nil
}

func (t *PopularRestaurant) Generate(in *Input) *models.ProactiveMessage {
	a := t.pick(in)
	if a == nil {
		return nil
	}
	return &models.ProactiveMessage{
		Title:             "A local favourite is nearby",
		Body:              fmt.Sprintf("%s is rated %.1f by %d visitors. %s.", a.Name, *a.Rating, a.ReviewCount, distanceText(in, a)),
		Subject:           a.ID,
		RelatedActivityID: a.ID,
		Action:            viewAction(a, "Take me there"),
		ExpiresAt:         in.Now.Add(t.cfg.MessageTTL),
	}
}

func outdoor(a *models.Activity) bool { return a.Capabilities.Outdoor }

func indoor(a *models.Activity) bool { return a.Capabilities.Indoor }

func scenic(a *models.Activity) bool { return a.Capabilities.Viewpoint || a.Capabilities.Scenic }

func openDining(a *models.Activity) bool {
	if a.Category != models.CategoryDining {
		return false
	}
	return a.OpenNow == nil || *a.OpenNow
}

func viewAction(a *models.Activity, label string) *models.MessageAction {
	return &models.MessageAction{Type: models.ActionViewActivity, Label: label, ActivityID: a.ID}
}

// best returns the matching candidate with the highest recommendation
// score, nearest first among equals, then lowest id.
func best(in *Input, match func(*models.Activity) bool) *models.Activity {
	var matches []*models.Activity
	for i := range in.Candidates {
		if match(&in.Candidates[i]) {
			matches = append(matches, &in.Candidates[i])
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := in.Score(matches[i].ID), in.Score(matches[j].ID)
		if si != sj {
			return si > sj
		}
		di, dj := distance(in, matches[i]), distance(in, matches[j])
		if di != dj {
			return di < dj
		}
		return matches[i].ID < matches[j].ID
	})
	return matches[0]
}

// distance returns meters to the activity, or +Inf when unknown.
func distance(in *Input, a *models.Activity) float64 {
	if in.Context == nil || in.Context.Location == nil || a.Location == nil {
		return math.Inf(1)
	}
	return geo.Distance(*in.Context.Location, *a.Location)
}

func distanceText(in *Input, a *models.Activity) string {
	d := distance(in, a)
	if math.IsInf(d, 1) {
		return ""
	}
	return geo.Describe(d)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
