// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/tomtom215/outfitter/internal/compat"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/provision"
	"github.com/tomtom215/outfitter/internal/wardrobe"
)

type outfitRequest struct {
	TopItemIDs    []string `json:"top_item_ids" validate:"required,min=1,dive,garment_id"`
	BottomItemIDs []string `json:"bottom_item_ids" validate:"required,min=1,dive,garment_id"`
}

type scoredOutfit struct {
	Top                models.GarmentRecord `json:"top"`
	Bottom             models.GarmentRecord `json:"bottom"`
	CompatibilityScore float64              `json:"compatibility_score"`
}

type outfitResponse struct {
	Outfits           []scoredOutfit `json:"outfits"`
	TotalCombinations int            `json:"total_combinations"`
}

// OutfitRecommendations ranks pairs of the given tops and bottoms by visual
// compatibility. Each side is cut to the configured maximum, ids that do not
// resolve to a garment of the right kind are ignored and garments without a
// readable photo are dropped before scoring.
func (h *Handler) OutfitRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req outfitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be a JSON object", nil)
		return
	}
	perSide := h.config.Outfits.MaxPerSide
	req.TopItemIDs = req.TopItemIDs[:min(len(req.TopItemIDs), perSide)]
	req.BottomItemIDs = req.BottomItemIDs[:min(len(req.BottomItemIDs), perSide)]
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	tops, err := h.resolveGarments(r.Context(), req.TopItemIDs, wardrobe.IsTop)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "WARDROBE_ERROR", "Failed to read garments", err)
		return
	}
	bottoms, err := h.resolveGarments(r.Context(), req.BottomItemIDs, wardrobe.IsBottom)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "WARDROBE_ERROR", "Failed to read garments", err)
		return
	}
	if len(tops) == 0 || len(bottoms) == 0 {
		respondError(w, http.StatusBadRequest, "NO_VALID_ITEMS", "Could not find valid top or bottom items", nil)
		return
	}

	topImages, validTops := wardrobe.LoadImages(h.images, tops, h.logger)
	bottomImages, validBottoms := wardrobe.LoadImages(h.images, bottoms, h.logger)
	if len(topImages) == 0 || len(bottomImages) == 0 {
		respondError(w, http.StatusBadRequest, "IMAGES_UNAVAILABLE",
			fmt.Sprintf("Could not load images for items. Loaded %d tops and %d bottoms.", len(topImages), len(bottomImages)), nil)
		return
	}

	candidates, err := h.scorer.BestOutfits(r.Context(), topImages, bottomImages, validTops, validBottoms, h.config.Outfits.TopK)
	if err != nil {
		h.respondScoringError(w, err)
		return
	}

	outfits := make([]scoredOutfit, len(candidates))
	for i, c := range candidates {
		outfits[i] = scoredOutfit{
			Top:                c.Top,
			Bottom:             c.Bottom,
			CompatibilityScore: math.Round(c.Score*1e4) / 1e4,
		}
	}
	respondData(w, http.StatusOK, outfitResponse{
		Outfits:           outfits,
		TotalCombinations: len(tops) * len(bottoms),
	}, start)
}

// resolveGarments fetches ids in order, skipping unknown ids and garments
// whose class label fails keep.
func (h *Handler) resolveGarments(ctx context.Context, ids []string, keep func(string) bool) ([]models.GarmentRecord, error) {
	out := make([]models.GarmentRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := h.wardrobe.Get(ctx, id)
		if errors.Is(err, wardrobe.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if keep(rec.ClassName) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (h *Handler) respondScoringError(w http.ResponseWriter, err error) {
	var imgErr *compat.ImagePreprocessingError
	switch {
	case errors.As(err, &imgErr):
		respondError(w, http.StatusUnprocessableEntity, "IMAGE_PREPROCESSING_FAILED", imgErr.Error(), err)
	case errors.Is(err, provision.ErrModelNotFound):
		respondError(w, http.StatusServiceUnavailable, "MODEL_UNAVAILABLE", "Compatibility model is not available", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "TIMEOUT", "Scoring did not finish in time", err)
	default:
		respondError(w, http.StatusInternalServerError, "SCORING_FAILED", "Failed to compute outfit compatibility", err)
	}
}
