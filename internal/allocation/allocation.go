// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package allocation distributes a fixed trip-day budget across a sequence
// of cities before an itinerary is generated.
//
// Every city gets an importance score from four factors: size (place
// count), interest match, favourites and position (origin and destination
// carry arrival and departure overhead). Days are shared out in proportion
// to importance, adjusted by the traveller's pace, floored at a per-city
// minimum and then rebalanced so the total is exactly the requested budget.
package allocation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/tomtom215/tripsense/internal/metrics"
	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/preference"
	"github.com/tomtom215/tripsense/internal/validation"
)

// residualEpsilon is the tolerance of the day total after rounding.
const residualEpsilon = 1e-9

// ErrInvalidInput matches every input rejection (errors.Is).
var ErrInvalidInput = errors.New("invalid allocation input")

// InputError reports structurally invalid input. It unwraps to the
// field-level *validation.RequestValidationError.
type InputError struct {
	Validation *validation.RequestValidationError
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Validation.Error())
}

// Is reports ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *InputError) Unwrap() error {
	return e.Validation
}

// City is one candidate stop of the trip.
type City struct {
	ID   string `json:"id" validate:"required,max=256"`
	Name string `json:"name,omitempty" validate:"max=512"`

	PlaceCount    int `json:"place_count" validate:"gte=0"`
	FavoriteCount int `json:"favorite_count" validate:"gte=0"`

	// CategoryCounts breaks PlaceCount down by category.
	CategoryCounts map[models.Category]int `json:"category_counts,omitempty" validate:"omitempty,dive,keys,category,endkeys,gte=0"`

	IsOrigin      bool `json:"is_origin,omitempty"`
	IsDestination bool `json:"is_destination,omitempty"`

	// InterestMatch overrides the computed interest factor when set.
	InterestMatch *float64 `json:"interest_match,omitempty" validate:"omitempty,finite,gte=0,lte=1"`
}

// IsEndpoint reports whether the city is the origin or the destination.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (c City) IsEndpoint() bool {
	return c.IsOrigin || c.IsDestination
}

// Options tune a single allocation.
type Options struct {
	Pace models.Pace `json:"pace,omitempty" validate:"pace"`

	// Interests are the traveller's interest weights, matched against each
	// city's category breakdown.
	Interests map[models.Interest]float64 `json:"interests,omitempty" validate:"omitempty,dive,keys,interest,endkeys,finite,gte=0,lte=1"`

	// Weights overrides the configured factor weights.
	Weights *Weights `json:"weights,omitempty"`
}

// Factors is the per-city factor breakdown.
type Factors struct {
	Size      float64 `json:"size"`
	Interest  float64 `json:"interest"`
	Favorites float64 `json:"favorites"`
	Position  float64 `json:"position"`
}

// CityAllocation is the outcome for one city.
type CityAllocation struct {
	CityID          string  `json:"city_id"`
	Name            string  `json:"name,omitempty"`
	Days            float64 `json:"days"`
	Nights          int     `json:"nights"`
	ImportanceScore float64 `json:"importance_score"`
	MinimumDays     float64 `json:"minimum_days"`
	Factors         Factors `json:"factors"`
}

// Result is a complete allocation. Allocations follow the input order.
type Result struct {
	Allocations []CityAllocation `json:"allocations"`
	TotalDays   float64          `json:"total_days"`
	TotalNights int              `json:"total_nights"`
	Pace        models.Pace      `json:"pace"`

	// MinimumsExceeded is set when the per-city minimums alone exceed the
	// budget and were ignored while scaling down.
	MinimumsExceeded bool `json:"minimums_exceeded,omitempty"`
}

// request is the validated shape of an allocation call.
type request struct {
	Cities    []City  `json:"cities" validate:"dive"`
	TotalDays float64 `json:"total_days" validate:"finite,gte=0"`
	Options   Options `json:"options"`
}

// Allocator allocates trip days. It holds no mutable state and is safe for
// concurrent use.
type Allocator struct {
	cfg Config
}

// NewAllocator creates an allocator.
//
//nolint:gocritic // hugeParam: config is copied once at construction
func NewAllocator(cfg Config) (*Allocator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Allocator{cfg: cfg}, nil
}

// Allocate distributes totalDays across cities. Invalid input is rejected
// with an *InputError before any computation.
func (a *Allocator) Allocate(cities []City, totalDays float64, opts Options) (*Result, error) {
	if err := a.validate(cities, totalDays, &opts); err != nil {
		metrics.AllocationRequests.WithLabelValues("invalid").Inc()
		return nil, err
	}

	pace := opts.Pace
	if pace == "" {
		pace = models.PaceBalanced
	}
	res := &Result{Allocations: []CityAllocation{}, Pace: pace}

	switch len(cities) {
	case 0:
		metrics.AllocationRequests.WithLabelValues("empty").Inc()
		return res, nil
	case 1:
		c := cities[0]
		res.Allocations = append(res.Allocations, CityAllocation{
			CityID:          c.ID,
			Name:            c.Name,
			Days:            totalDays,
			Nights:          nights(totalDays, true),
			ImportanceScore: 1,
			MinimumDays:     a.minimum(c),
			Factors:         Factors{Size: 1, Interest: 1, Favorites: 1, Position: 1},
		})
		res.TotalDays = totalDays
		res.TotalNights = res.Allocations[0].Nights
		metrics.AllocationRequests.WithLabelValues("success").Inc()
		return res, nil
	}

	weights := a.cfg.Weights
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	weights = weights.Normalize()

	factors := a.factors(cities, opts.Interests)
	scores := make([]float64, len(cities))
	var scoreSum float64
	for i, f := range factors {
		scores[i] = weights.Size*f.Size + weights.Interest*f.Interest +
			weights.Favorites*f.Favorites + weights.Position*f.Position
		scoreSum += scores[i]
	}
	if scoreSum <= 0 {
		// Every factor weighted to zero: share evenly.
		for i := range scores {
			scores[i] = 1
		}
		scoreSum = float64(len(scores))
	}

	days := make([]float64, len(cities))
	mins := make([]float64, len(cities))
	mult := a.cfg.multiplier(pace)
	var minSum float64
	for i, c := range cities {
		mins[i] = a.minimum(c)
		minSum += mins[i]
		days[i] = math.Max(scores[i]/scoreSum*totalDays*mult, mins[i])
	}

	sum := total(days)
	switch {
	case sum > totalDays && minSum <= totalDays:
		// Shrink the share above each minimum.
		above := sum - minSum
		keep := totalDays - minSum
		for i := range days {
			days[i] = mins[i] + (days[i]-mins[i])*keep/above
		}
	case sum > totalDays:
		res.MinimumsExceeded = true
		for i := range days {
			days[i] *= totalDays / sum
		}
	case sum < totalDays:
		shortfall := totalDays - sum
		for i := range days {
			days[i] += shortfall * scores[i] / scoreSum
		}
	}

	for i := range days {
		days[i] = math.Round(days[i]*10) / 10
	}

	settle(days, scores, totalDays)

	for i, c := range cities {
		n := nights(days[i], i == len(cities)-1)
		res.Allocations = append(res.Allocations, CityAllocation{
			CityID:          c.ID,
			Name:            c.Name,
			Days:            days[i],
			Nights:          n,
			ImportanceScore: scores[i],
			MinimumDays:     mins[i],
			Factors:         factors[i],
		})
		res.TotalDays += days[i]
		res.TotalNights += n
	}
	metrics.AllocationRequests.WithLabelValues("success").Inc()
	return res, nil
}

func (a *Allocator) validate(cities []City, totalDays float64, opts *Options) error {
	req := request{Cities: cities, TotalDays: totalDays, Options: *opts}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return &InputError{Validation: verr}
	}

	var extra []validation.ValidationError
	if totalDays > a.cfg.MaxTotalDays {
		extra = append(extra, validation.NewFieldError("total_days", "lte", totalDays,
			fmt.Sprintf("total_days must be less than or equal to %g", a.cfg.MaxTotalDays)))
	}
	if len(cities) > a.cfg.MaxCities {
		extra = append(extra, validation.NewFieldError("cities", "max", len(cities),
			fmt.Sprintf("cities must contain at most %d items", a.cfg.MaxCities)))
	}
	if verr := validation.NewRequestValidationError(extra...); verr != nil {
		return &InputError{Validation: verr}
	}
	return nil
}

//nolint:gocritic // hugeParam: City is read-only here
func (a *Allocator) minimum(c City) float64 {
	if c.IsEndpoint() {
		return a.cfg.EndpointMinDays
	}
	return a.cfg.MinDays
}

// factors computes every city's factor breakdown.
func (a *Allocator) factors(cities []City, interests map[models.Interest]float64) []Factors {
	places := make([]float64, len(cities))
	favorites := make([]float64, len(cities))
	for i, c := range cities {
		places[i] = float64(c.PlaceCount)
		favorites[i] = float64(c.FavoriteCount)
	}
	sizes := spread(places)
	favs := spread(favorites)

	var prefs *models.UserPreferences
	if len(interests) > 0 {
		prefs = &models.UserPreferences{InterestWeights: interests}
	}

	out := make([]Factors, len(cities))
	for i, c := range cities {
		position := 1.0
		if c.IsEndpoint() {
			position = a.cfg.EndpointPosition
		}
		out[i] = Factors{
			Size:      sizes[i],
			Interest:  a.interest(c, prefs),
			Favorites: favs[i],
			Position:  position,
		}
	}
	return out
}

// interest is the precomputed match, or the category breakdown weighted by
// the traveller's affinity for each category.
//
//nolint:gocritic // hugeParam: City is read-only here
func (a *Allocator) interest(c City, prefs *models.UserPreferences) float64 {
	if c.InterestMatch != nil {
		return *c.InterestMatch
	}
	if prefs == nil {
		return a.cfg.DefaultInterest
	}
	var count int
	for _, n := range c.CategoryCounts {
		count += n
	}
	if count == 0 {
		return a.cfg.DefaultInterest
	}
	var match float64
	for cat, n := range c.CategoryCounts {
		match += float64(n) / float64(count) * preference.CategoryAffinity(cat, prefs)
	}
	return match
}

// spread maps values linearly onto [0.5, 1.5]; all-equal values map to 1.
func spread(values []float64) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if hi == lo {
			out[i] = 1
			continue
		}
		out[i] = 0.5 + (v-lo)/(hi-lo)
	}
	return out
}

// nights is the rounded day count; the last city has no overnight stay on
// departure day.
func nights(days float64, last bool) int {
	n := int(math.Round(days))
	if last {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// settle moves the rounding residual so days sums to totalDays. The most
// important city absorbs it first; a city is never taken below zero, so any
// remainder falls to the others, largest allocation first.
func settle(days, scores []float64, totalDays float64) {
	diff := totalDays - total(days)
	if math.Abs(diff) <= residualEpsilon {
		return
	}

	order := make([]int, len(days))
	for i := range order {
		order[i] = i
	}
	top := 0
	for i := range scores {
		if scores[i] > scores[top] {
			top = i
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if (a == top) != (b == top) {
			return a == top
		}
		return days[a] > days[b]
	})

	for _, i := range order {
		next := math.Max(0, days[i]+diff)
		diff -= next - days[i]
		days[i] = next
		if math.Abs(diff) <= residualEpsilon {
			return
		}
	}
}

func total(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

var defaultAllocator = func() *Allocator {
	a, err := NewAllocator(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return a
}()

// Allocate distributes totalDays with the default configuration.
func Allocate(cities []City, totalDays float64, opts Options) (*Result, error) {
	return defaultAllocator.Allocate(cities, totalDays, opts)
}
