// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and registers validators for the fixed vocabularies every
// request record uses:
//
//	category   activity category (dining, culture, ...)
//	condition  weather condition (clear, rain, storm, ...)
//	budget     budget level (budget, moderate, upscale, luxury)
//	dining     dining style (casual, fine_dining, ...)
//	interest   interest dimension (food, culture, ...)
//	trigger    proactive trigger type
//	pace       trip pace (relaxed, balanced, packed)
//	mode       recommendation mode (balanced, nearby, ...)
//	finite     float that is neither NaN nor infinite
//
// Failures are returned as *RequestValidationError, which the HTTP layer
// turns into a 400 response:
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/tripsense/internal/models"
	"github.com/tomtom215/tripsense/internal/recommend"
)

// ErrorCode is the API error code for validation failures.
const ErrorCode = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is a single field failure.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// NewFieldError builds a failure for checks that cannot be expressed as a
// struct tag.
func NewFieldError(field, tag string, value interface{}, message string) ValidationError {
	return ValidationError{field: field, tag: tag, value: value, message: message}
}

// Field returns the JSON name of the field that failed.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the tag parameter ("100" for "max=100").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the rejected value.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns a human-readable message.
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError collects every failure of one request.
type RequestValidationError struct {
	errors []ValidationError
}

// NewRequestValidationError wraps field failures. It returns nil when there
// are none.
func NewRequestValidationError(errs ...ValidationError) *RequestValidationError {
	if len(errs) == 0 {
		return nil
	}
	return &RequestValidationError{errors: errs}
}

// Errors returns the individual failures.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error joins every failure message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for i := range ve.errors {
		messages = append(messages, ve.errors[i].Error())
	}
	return strings.Join(messages, "; ")
}

// Fields returns the names of the failed fields in order.
func (ve *RequestValidationError) Fields() []string {
	out := make([]string, len(ve.errors))
	for i := range ve.errors {
		out[i] = ve.errors[i].field
	}
	return out
}

// APIError mirrors the API error envelope without importing the api package.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the failures into the API error format.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: ErrorCode, Message: "Validation failed"}
	case 1:
		e := ve.errors[0]
		return &APIError{
			Code:    ErrorCode,
			Message: e.message,
			Details: map[string]interface{}{
				"field": e.field,
				"tag":   e.tag,
				"value": e.value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	messages := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]interface{}{
			"field":   e.field,
			"tag":     e.tag,
			"message": e.message,
		}
		messages[i] = fmt.Sprintf("%s: %s", e.field, e.message)
	}
	return &APIError{
		Code:    ErrorCode,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{"fields": fields},
	}
}

// vocabularies maps custom tags to their membership checks.
var vocabularies = map[string]func(string) bool{
	"category":  func(s string) bool { return models.Category(s).Valid() },
	"condition": func(s string) bool { return models.WeatherCondition(s).Valid() },
	"budget":    func(s string) bool { return models.BudgetLevel(s).Valid() },
	"dining":    func(s string) bool { return models.DiningStyle(s).Valid() },
	"interest":  func(s string) bool { return models.Interest(s).Valid() },
	"trigger":   func(s string) bool { return models.TriggerType(s).Valid() },
	"pace":      func(s string) bool { return models.Pace(s).Valid() },
	"mode": func(s string) bool {
		_, ok := recommend.ParseMode(s)
		return ok
	},
}

// GetValidator returns the shared validator, creating it on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names so messages match the request body.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		for tag, valid := range vocabularies {
			// Registration only fails for empty tags.
			_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			})
		}
		_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
	})
	return validate
}

// ValidateStruct validates s. It returns nil on success.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return NewRequestValidationError(NewFieldError("unknown", "unknown", nil, err.Error()))
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldPath(fe),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// ValidateVar validates a single value against a tag string. field names
// the value in error messages.
func ValidateVar(field string, value interface{}, tag string) *RequestValidationError {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return NewRequestValidationError(NewFieldError(field, "unknown", value, err.Error()))
	}
	fe := validationErrs[0]
	return NewRequestValidationError(ValidationError{
		field:   field,
		tag:     fe.Tag(),
		param:   fe.Param(),
		value:   value,
		message: translate(field, fe),
	})
}

// fieldPath drops the top-level struct name from the namespace so nested
// failures read "context.weather.condition".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var errorMessageTemplates = map[string]string{
	"required":  "%s is required",
	"latitude":  "%s must be a valid latitude (-90 to 90)",
	"longitude": "%s must be a valid longitude (-180 to 180)",
	"finite":    "%s must be a finite number",
	"category":  "%s must be a known activity category",
	"condition": "%s must be a known weather condition",
	"budget":    "%s must be one of: budget moderate upscale luxury",
	"dining":    "%s must be a known dining style",
	"interest":  "%s must be a known interest",
	"trigger":   "%s must be a known trigger type",
	"pace":      "%s must be one of: relaxed balanced packed",
	"mode":      "%s must be a known recommendation mode",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	return translate(fieldPath(fe), fe)
}

func translate(field string, fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind() == reflect.String
	isSlice := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map
	switch tag {
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		switch {
		case isString:
			return fmt.Sprintf("%s must be %s %s characters", field, bound, param)
		case isSlice:
			return fmt.Sprintf("%s must contain %s %s items", field, bound, param)
		default:
			return fmt.Sprintf("%s must be %s %s", field, bound, param)
		}
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
