// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/provision"
)

// HealthLive reports that the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady reports whether compatibility requests can be served. The
// model loads lazily, so an unloaded model is ready; only a failed load with
// no previous handle to fall back on is not.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.models.Status()
	ready := h.models.Current() != nil || st.State != provision.StateFailed

	data := map[string]interface{}{
		"ready":       ready,
		"model_state": st.State,
	}
	if st.LastError != "" {
		data["last_error"] = st.LastError
	}

	if !ready {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     data,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    &models.APIError{Code: "MODEL_UNAVAILABLE", Message: "Compatibility model failed to load"},
		})
		return
	}
	respondData(w, http.StatusOK, data, time.Now())
}
