// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/tripsense/internal/logging"
	"github.com/tomtom215/tripsense/internal/validation"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-123"))
	w := httptest.NewRecorder()

	NewResponseWriter(w, req).Success(map[string]string{"key": "value"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}

	resp := decodeEnvelope(t, w)
	if !resp.Success {
		t.Error("expected success to be true")
	}
	if resp.Error != nil {
		t.Errorf("expected no error, got %+v", resp.Error)
	}
	if resp.Meta == nil || resp.Meta.RequestID != "req-123" || resp.Meta.Timestamp.IsZero() {
		t.Errorf("meta = %+v, want request id and timestamp", resp.Meta)
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		write    func(rw *ResponseWriter)
		wantCode int
		wantErr  string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("missing") }, http.StatusNotFound, ErrCodeNotFound},
		{"payload too large", func(rw *ResponseWriter) { rw.PayloadTooLarge("big") }, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},
		{"too many requests", func(rw *ResponseWriter) { rw.TooManyRequests("slow down") }, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("boom") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("down") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"validation", func(rw *ResponseWriter) {
			rw.ValidationError(validation.ValidateVar("hour", 30, "lte=23"))
		}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-err"))
			w := httptest.NewRecorder()
			tt.write(NewResponseWriter(w, req))

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			resp := decodeEnvelope(t, w)
			if resp.Success {
				t.Error("expected success to be false")
			}
			if resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Fatalf("error = %+v, want code %s", resp.Error, tt.wantErr)
			}
			if resp.Error.RequestID != "req-err" {
				t.Errorf("error request id = %q, want req-err", resp.Error.RequestID)
			}
		})
	}
}

func TestResponseWriter_ValidationDetails(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()
	NewResponseWriter(w, req).ValidationError(validation.ValidateVar("hour", 30, "lte=23"))

	resp := decodeEnvelope(t, w)
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("details = %#v, want an object", resp.Error.Details)
	}
	if details["field"] != "hour" || details["tag"] != "lte" {
		t.Errorf("details = %v, want field hour and tag lte", details)
	}
}

func TestResponseWriter_NoContent(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	NewResponseWriter(w, httptest.NewRequest(http.MethodDelete, "/test", nil)).NoContent()
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("status = %d, body = %q, want empty 204", w.Code, w.Body.String())
	}
}
