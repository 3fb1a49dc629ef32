// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/weather"
)

// recommendItemLimit is how many of the newest garments are considered.
const recommendItemLimit = 200

type recommendRequest struct {
	City string `json:"city" validate:"omitempty,max=128"`
}

type recommendResponse struct {
	*weather.Recommendation
	LiveWeather bool `json:"live_weather"`
}

// Recommend scores the wardrobe against the weather in ?city= (or the
// configured default city) and returns the suggested outfit. When no live
// reading is available the configured default observation is used.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := recommendRequest{City: strings.TrimSpace(r.URL.Query().Get("city"))}
	if req.City == "" {
		req.City = h.config.Weather.DefaultCity
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	items, err := h.wardrobe.List(r.Context(), recommendItemLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "WARDROBE_ERROR", "Failed to list wardrobe", err)
		return
	}

	def := models.DefaultObservation(h.config.Weather.DefaultTempC, h.config.Weather.DefaultCondition)
	obs, live := weather.Resolve(r.Context(), h.weather, req.City, def)

	respondData(w, http.StatusOK, recommendResponse{
		Recommendation: weather.Recommend(items, obs),
		LiveWeather:    live,
	}, start)
}
