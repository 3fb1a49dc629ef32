// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/outfitter/internal/events"
	"github.com/tomtom215/outfitter/internal/provision"
)

type reloadResponse struct {
	Status      string                `json:"status"`
	TrackingURI string                `json:"tracking_uri"`
	ModelName   string                `json:"model_name"`
	Stage       string                `json:"stage"`
	Provenance  *provision.Provenance `json:"provenance,omitempty"`
}

type modelStatusResponse struct {
	provision.Status
	Events []events.ModelEvent `json:"events,omitempty"`
}

// ModelReload replaces the active model with the registry's latest version in
// the configured stage. On failure the previous model keeps serving.
func (h *Handler) ModelReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !h.models.ReloadFromRegistry(r.Context()) {
		respondError(w, http.StatusInternalServerError, "RELOAD_FAILED",
			"Failed to reload model from the registry; check server logs.", nil)
		return
	}

	resp := reloadResponse{
		Status:      "reloaded",
		TrackingURI: h.config.Model.RegistryURL,
		ModelName:   h.config.Model.Name,
		Stage:       h.config.Model.Stage,
	}
	if cur := h.models.Current(); cur != nil {
		prov := cur.Provenance
		resp.Provenance = &prov
	}
	respondData(w, http.StatusOK, resp, start)
}

// ModelStatus reports the provisioning state, the last load result and recent
// lifecycle events.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := modelStatusResponse{Status: h.models.Status()}
	if h.events != nil {
		resp.Events = h.events.Recent()
	}
	respondData(w, http.StatusOK, resp, start)
}
