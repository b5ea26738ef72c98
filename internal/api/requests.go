// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tripsense/internal/allocation"
	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/recommend"
	"github.com/tomtom215/tripsense/internal/validation"
)

// ContextRequest is the wire form of the user's present moment.
type ContextRequest struct {
	Hour     int                    `json:"hour" validate:"gte=0,lte=23"`
	Now      time.Time              `json:"now"`
	Location *models.Coordinates    `json:"location,omitempty"`
	Weather  *models.WeatherContext `json:"weather,omitempty"`
	City     string                 `json:"city,omitempty" validate:"max=256"`

	Completed []string `json:"completed,omitempty" validate:"max=10000,dive,max=256"`
	Skipped   []string `json:"skipped,omitempty" validate:"max=10000,dive,max=256"`
	Planned   []string `json:"planned,omitempty" validate:"max=10000,dive,max=256"`
}

// toModel converts the request into the engine's context.
func (c *ContextRequest) toModel() models.Context {
	return models.Context{
		Hour:      c.Hour,
		Now:       c.Now,
		Location:  c.Location,
		Weather:   c.Weather,
		City:      c.City,
		Completed: models.IDSet(c.Completed),
		Skipped:   models.IDSet(c.Skipped),
		Planned:   models.IDSet(c.Planned),
	}
}

// RecommendRequest is the body of POST .../recommendations.
type RecommendRequest struct {
	Activities    []models.Activity  `json:"activities" validate:"dive"`
	Context       ContextRequest     `json:"context"`
	Mode          string             `json:"mode,omitempty" validate:"omitempty,mode"`
	CustomWeights *recommend.Weights `json:"custom_weights,omitempty"`
	Limit         int                `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// toModel converts the request, normalizing catalog category labels.
func (req *RecommendRequest) toModel(requestID string) recommend.Request {
	return recommend.Request{
		RequestID:     requestID,
		Activities:    normalizeActivities(req.Activities),
		Context:       req.Context.toModel(),
		Mode:          recommend.Mode(req.Mode),
		CustomWeights: req.CustomWeights,
		Limit:         req.Limit,
	}
}

// PreferencesRequest is the body of PUT .../preferences.
type PreferencesRequest struct {
	InterestWeights   map[models.Interest]float64 `json:"interest_weights,omitempty" validate:"omitempty,dive,keys,interest,endkeys,finite,gte=0,lte=1"`
	SpecificInterests []models.InterestTag        `json:"specific_interests,omitempty" validate:"max=200,dive"`
	Avoidances        []models.AvoidanceTag       `json:"avoidances,omitempty" validate:"max=200,dive"`

	Budget      models.BudgetLevel `json:"budget,omitempty" validate:"omitempty,budget"`
	DiningStyle models.DiningStyle `json:"dining_style,omitempty" validate:"omitempty,dining"`

	PrefersHiddenGems   bool    `json:"prefers_hidden_gems,omitempty"`
	HiddenGemConfidence float64 `json:"hidden_gem_confidence,omitempty" validate:"gte=0,lte=1"`
	Confidence          float64 `json:"confidence" validate:"gte=0,lte=1"`
}

func (req *PreferencesRequest) toModel() *models.UserPreferences {
	return &models.UserPreferences{
		InterestWeights:     req.InterestWeights,
		SpecificInterests:   req.SpecificInterests,
		Avoidances:          req.Avoidances,
		Budget:              req.Budget,
		DiningStyle:         req.DiningStyle,
		PrefersHiddenGems:   req.PrefersHiddenGems,
		HiddenGemConfidence: req.HiddenGemConfidence,
		Confidence:          req.Confidence,
	}
}

// EvaluateRequest is the body of POST .../triggers/evaluate.
type EvaluateRequest struct {
	Context    ContextRequest    `json:"context"`
	Activities []models.Activity `json:"activities" validate:"max=1000,dive"`
}

// DismissRequest is the body of POST .../triggers/dismissals.
type DismissRequest struct {
	Type    models.TriggerType `json:"type" validate:"required,trigger"`
	Subject string             `json:"subject" validate:"required,max=256"`
}

// AllocationRequest is the body of POST /api/v1/allocations. Field
// validation happens in the allocator.
type AllocationRequest struct {
	Cities    []allocation.City  `json:"cities"`
	TotalDays float64            `json:"total_days"`
	Options   allocation.Options `json:"options"`
}

// normalizeActivities drops client-supplied capabilities, which are always
// derived server-side, and maps upstream category labels onto the fixed
// vocabulary. The input slice is not modified.
func normalizeActivities(in []models.Activity) []models.Activity {
	out := make([]models.Activity, len(in))
	for i := range in {
		out[i] = in[i]
		out[i].Category = models.ParseCategory(string(in[i].Category))
		out[i].Capabilities = models.Capabilities{}
	}
	return out
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		switch {
		case isBodyTooLarge(err):
			rw.PayloadTooLarge("request body too large")
		case errors.Is(err, io.EOF):
			rw.BadRequest("request body is empty")
		default:
			rw.BadRequest("invalid JSON body: " + err.Error())
		}
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(verr)
		return false
	}
	return true
}
