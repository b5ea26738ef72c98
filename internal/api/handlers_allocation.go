// Tripsense - Trip Companion Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripsense

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/tripsense/internal/allocation"
	"github.com/tomtom215/tripsense/internal/logging"
)

// Allocate distributes the trip's days across its cities.
func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req AllocationRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	res, err := h.allocator.Allocate(req.Cities, req.TotalDays, req.Options)
	if err != nil {
		var inErr *allocation.InputError
		if errors.As(err, &inErr) {
			rw.ValidationError(inErr.Validation)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("allocation failed")
		rw.InternalError("allocation failed")
		return
	}
	rw.Success(res)
}
