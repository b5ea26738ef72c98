// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/tripsense/internal/explain"
	"github.com/tomtom215/tripsense/internal/geo"
	"github.com/tomtom215/tripsense/internal/keywords"
	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/preference"
	"github.com/tomtom215/tripsense/internal/timeofday"
	"github.com/tomtom215/tripsense/internal/weather"
)

// Rating and serendipity constants.
const (
	ratingPrior       = 3.5
	ratingPriorWeight = 10.0
	neutralValue      = 0.5

	serendipityBaseline        = 0.3
	serendipityGemFloor        = 0.8
	serendipityUnderReviewed   = 50
	serendipityUnderRatedFloor = 4.3
	serendipityUnderRatedBonus = 0.2

	highlyRated = 4.5
)

// Inputs are the six component values for one activity plus the context
// flags the combiner needs. Computing them is the expensive part of scoring,
// so sessions cache them.
type Inputs struct {
	Time        float64
	Distance    float64
	Preference  float64
	Serendipity float64
	Rating      float64
	Weather     float64

	Reasons map[models.Component]string

	HasLocation    bool
	HasWeather     bool
	HasPreferences bool
	HasRating      bool
	HiddenGem      bool

	PreferenceConfidence float64
	ShouldAvoid          bool
	StrongMatch          bool

	// DistanceMeters is -1 when either location is unknown.
	DistanceMeters float64

	Urgency string
}

// Scorer holds the component models. It is immutable after construction
// and safe for concurrent use by any number of sessions.
type Scorer struct {
	cfg        *Config
	classifier *keywords.Classifier
	proximity  *geo.Proximity
	timeModel  *timeofday.Model
	weather    *weather.Model
	preference *preference.Model
	explainer  *explain.Generator
}

// NewScorer validates cfg and builds the component models.
func NewScorer(cfg *Config) (*Scorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tables := cfg.Keywords
	if tables == nil {
		t := keywords.DefaultTables()
		tables = &t
	}

	prox, err := geo.NewProximity(cfg.Proximity)
	if err != nil {
		return nil, fmt.Errorf("proximity: %w", err)
	}
	pref, err := preference.NewModel(cfg.Preference, tables)
	if err != nil {
		return nil, fmt.Errorf("preference: %w", err)
	}

	var rules map[timeofday.Period]timeofday.Rule
	if len(cfg.TimeRules) > 0 {
		rules = cfg.TimeRules
	}

	return &Scorer{
		cfg:        cfg,
		classifier: keywords.NewClassifier(tables),
		proximity:  prox,
		timeModel:  timeofday.NewModel(rules),
		weather:    weather.NewModel(cfg.Weather),
		preference: pref,
		explainer:  explain.NewGenerator(cfg.Explain),
	}, nil
}

// Config returns the scorer configuration. Callers must not modify it.
func (s *Scorer) Config() *Config {
	return s.cfg
}

// Classifier returns the capability classifier used at ingestion.
func (s *Scorer) Classifier() *keywords.Classifier {
	return s.classifier
}

// Weather returns the weather model, shared with the trigger engine.
func (s *Scorer) Weather() *weather.Model {
	return s.weather
}

// ScoreActivity computes all six component values for one activity. The
// activity should already carry computed capabilities; if not, they are
// derived on a local copy.
func (s *Scorer) ScoreActivity(a *models.Activity, ctx *models.Context, prefs *models.UserPreferences) Inputs {
	if !a.Capabilities.Computed {
		classified := s.classifier.Ensure(*a)
		a = &classified
	}
	if ctx == nil {
		ctx = &models.Context{Hour: 12}
	}

	in := Inputs{
		Reasons:        make(map[models.Component]string, 6),
		HasLocation:    ctx.Location != nil,
		HasWeather:     ctx.Weather != nil,
		HasPreferences: prefs != nil,
		HasRating:      a.Rating != nil,
		HiddenGem:      a.IsHiddenGem(),
	}

	tod := s.timeModel.Score(a, ctx.Hour)
	in.Time = tod.Score
	if tod.IsAppropriate && tod.Reason != "" {
		in.Reasons[models.ComponentTime] = tod.Reason
	}

	dist := s.proximity.Between(ctx.Location, a.Location)
	in.Distance = dist.Score
	in.DistanceMeters = dist.Meters
	if dist.Known && dist.Score >= neutralValue && dist.Reason != "" {
		in.Reasons[models.ComponentDistance] = dist.Reason
	}

	pref := preference.Neutral()
	if prefs != nil {
		pref = s.preference.Score(a, prefs)
	}
	in.Preference = pref.Score
	in.PreferenceConfidence = pref.Confidence
	in.ShouldAvoid = pref.ShouldAvoid
	in.StrongMatch = pref.IsStrongMatch
	if len(pref.Reasons) > 0 {
		in.Reasons[models.ComponentPreference] = pref.Reasons[0]
	}

	in.Serendipity = serendipityValue(a)
	if in.HiddenGem {
		in.Reasons[models.ComponentSerendipity] = "A hidden gem most visitors miss"
	}

	in.Rating = ratingValue(a)
	if a.Rating != nil && *a.Rating >= highlyRated {
		in.Reasons[models.ComponentRating] = fmt.Sprintf("Highly rated at %.1f", *a.Rating)
	}

	wx := weather.Neutral()
	if ctx.Weather != nil {
		wx = s.weather.Score(a, ctx.Weather)
	}
	in.Weather = wx.Score
	in.Urgency = wx.Urgency
	if wx.Multiplier > 1 && wx.Reason != "" {
		in.Reasons[models.ComponentWeather] = wx.Reason
	}
	return in
}

// Combine weights the inputs into a breakdown. Confidence depends only on
// which inputs were available, never on the score.
func (s *Scorer) Combine(in *Inputs, mode Mode, w Weights) models.ScoreBreakdown {
	serendipity := in.Serendipity
	if mode == ModeSpontaneous && in.HiddenGem {
		serendipity = clamp01(serendipity + s.cfg.SpontaneousGemBonus)
	}

	values := []struct {
		name  models.Component
		value float64
	}{
		{models.ComponentTime, in.Time},
		{models.ComponentDistance, in.Distance},
		{models.ComponentPreference, in.Preference},
		{models.ComponentSerendipity, serendipity},
		{models.ComponentRating, in.Rating},
		{models.ComponentWeather, in.Weather},
	}

	b := models.ScoreBreakdown{
		Components:     make([]models.ScoreComponent, 0, len(values)),
		Mode:           string(mode),
		DistanceMeters: in.DistanceMeters,
		Urgency:        in.Urgency,
	}
	var sum float64
	for _, v := range values {
		weight := w.Get(v.name)
		contribution := v.value * weight
		sum += contribution
		b.Components = append(b.Components, models.ScoreComponent{
			Name:         v.name,
			Value:        v.value,
			Weight:       weight,
			Contribution: contribution,
			Reason:       in.Reasons[v.name],
		})
	}

	if !in.HasLocation {
		b.Penalty += s.cfg.MissingDataPenalty * w.Distance
	}
	if !in.HasWeather {
		b.Penalty += s.cfg.MissingDataPenalty * w.Weather / 2
	}
	b.FinalScore = clamp01(sum - b.Penalty)
	b.Confidence = confidence(in)
	return b
}

// Explain builds the Why-Now explanation for a scored activity.
func (s *Scorer) Explain(b *models.ScoreBreakdown, a *models.Activity, ctx *models.Context) models.WhyNowReason {
	return s.explainer.Explain(b, a, ctx)
}

// Score is the single-shot path: enrich, combine and explain one activity
// with no session state.
func (s *Scorer) Score(a *models.Activity, ctx *models.Context, prefs *models.UserPreferences, mode Mode) models.ScoredActivity {
	in := s.ScoreActivity(a, ctx, prefs)
	b := s.Combine(&in, mode, ResolveWeights(mode, s.cfg.CustomWeights))
	why := s.Explain(&b, a, ctx)
	return models.ScoredActivity{Activity: *a, Breakdown: b, Why: &why}
}

func confidence(in *Inputs) float64 {
	c := 0.5
	if in.HasLocation {
		c += 0.2
	}
	if in.HasWeather {
		c += 0.1
	}
	if in.HasPreferences {
		c += 0.15 * in.PreferenceConfidence
	}
	if in.HasRating {
		c += 0.05
	}
	return math.Min(c, 1.0)
}

func serendipityValue(a *models.Activity) float64 {
	v := serendipityBaseline
	if a.IsHiddenGem() {
		v = math.Max(a.HiddenGemScore, serendipityGemFloor)
	}
	if a.Rating != nil && *a.Rating >= serendipityUnderRatedFloor && a.ReviewCount < serendipityUnderReviewed {
		v += serendipityUnderRatedBonus
	}
	return clamp01(v)
}

// ratingValue shrinks the rating towards a prior so a single 5-star review
// does not outrank hundreds of 4.6s.
func ratingValue(a *models.Activity) float64 {
	if a.Rating == nil {
		return neutralValue
	}
	r := math.Max(0, math.Min(5, *a.Rating))
	n := float64(max(a.ReviewCount, 0))
	shrunk := (ratingPriorWeight*ratingPrior + n*r) / (ratingPriorWeight + n)
	return clamp01(shrunk / 5)
}

// Rank sorts activities by final score, orders near-ties by the secondary
// key and assigns 1-based ranks. Groups are anchored on their highest score
// so the ordering is a strict weak order.
func Rank(items []models.ScoredActivity, tie TieBreak, epsilon float64) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Breakdown.FinalScore != items[j].Breakdown.FinalScore {
			return items[i].Breakdown.FinalScore > items[j].Breakdown.FinalScore
		}
		return items[i].Activity.ID < items[j].Activity.ID
	})

	for start := 0; start < len(items); {
		head := items[start].Breakdown.FinalScore
		end := start + 1
		for end < len(items) && head-items[end].Breakdown.FinalScore <= epsilon {
			end++
		}
		if end-start > 1 {
			group := items[start:end]
			sort.SliceStable(group, func(i, j int) bool {
				ki, kj := tieKey(&group[i], tie), tieKey(&group[j], tie)
				if ki != kj {
					return ki > kj
				}
				if group[i].Breakdown.FinalScore != group[j].Breakdown.FinalScore {
					return group[i].Breakdown.FinalScore > group[j].Breakdown.FinalScore
				}
				return group[i].Activity.ID < group[j].Activity.ID
			})
		}
		start = end
	}

	for i := range items {
		items[i].Rank = i + 1
	}
}

func tieKey(s *models.ScoredActivity, tie TieBreak) float64 {
	switch tie {
	case TieBreakRating:
		return s.Breakdown.Value(models.ComponentRating)
	case TieBreakSerendipity:
		return s.Breakdown.Value(models.ComponentSerendipity)
	default:
		return s.Breakdown.Value(models.ComponentDistance)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
