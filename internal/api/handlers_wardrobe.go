// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/validation"
	"github.com/tomtom215/outfitter/internal/wardrobe"
)

// defaultWardrobeLimit is the page size when no limit is given.
const defaultWardrobeLimit = 100

type wardrobeListRequest struct {
	Limit int    `json:"limit" validate:"min=1"`
	Class string `json:"class" validate:"omitempty,max=64"`
}

// WardrobeList lists garments newest first, or by class label substring
// ordered by classifier confidence when ?class= is given.
func (h *Handler) WardrobeList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, ok := getIntParam(r, "limit", defaultWardrobeLimit)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be an integer", nil)
		return
	}
	req := wardrobeListRequest{Limit: limit, Class: strings.TrimSpace(r.URL.Query().Get("class"))}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if ceiling := h.config.Wardrobe.ListLimit; ceiling > 0 && req.Limit > ceiling {
		req.Limit = ceiling
	}

	var (
		items []models.GarmentRecord
		err   error
	)
	if req.Class != "" {
		items, err = h.wardrobe.ListByClass(r.Context(), req.Class, req.Limit)
	} else {
		items, err = h.wardrobe.List(r.Context(), req.Limit)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "WARDROBE_ERROR", "Failed to list wardrobe", err)
		return
	}
	respondData(w, http.StatusOK, items, start)
}

// WardrobeItem returns one garment.
func (h *Handler) WardrobeItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	item, err := h.wardrobe.Get(r.Context(), id)
	switch {
	case errors.Is(err, wardrobe.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Garment not found", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "WARDROBE_ERROR", "Failed to read garment", err)
		return
	}
	respondData(w, http.StatusOK, item, start)
}

// WardrobeUpload stores a classified photo. The multipart form carries the
// image as "file" and the classifier output as "class_name" and "confidence".
func (h *Handler) WardrobeUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	maxUpload := h.config.Wardrobe.MaxUpload

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
				"Image exceeds "+strconv.FormatInt(maxUpload, 10)+" bytes", nil)
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_FORM", "Expected a multipart form", err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "MISSING_FILE", "Form field file is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_FORM", "Failed to read upload", err)
		return
	}

	var confidence float64
	if raw := strings.TrimSpace(r.FormValue("confidence")); raw != "" {
		if confidence, err = strconv.ParseFloat(raw, 64); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "confidence must be a number", nil)
			return
		}
	}

	rec, err := h.ingester.Ingest(r.Context(), wardrobe.IngestRequest{
		Image:      data,
		ClassName:  strings.TrimSpace(r.FormValue("class_name")),
		Confidence: confidence,
	})
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondErrorDetails(w, http.StatusBadRequest, toAPIError(verr), nil)
		return
	case errors.Is(err, wardrobe.ErrEmptyUpload):
		respondError(w, http.StatusBadRequest, "MISSING_FILE", "Uploaded file is empty", nil)
		return
	case errors.Is(err, wardrobe.ErrUndecodableImage):
		respondError(w, http.StatusBadRequest, "INVALID_IMAGE", "Upload is not a supported image", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "WARDROBE_ERROR", "Failed to store garment", err)
		return
	}
	respondData(w, http.StatusCreated, rec, start)
}

// Image serves a stored photo.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	path, err := h.images.Path(name)
	if err != nil || !h.images.Exists(name) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Image not found", nil)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
