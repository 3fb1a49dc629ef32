// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/outfitter/internal/metrics"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/validation"
)

// fallbackColor is stored when colour extraction fails on a decodable image.
const fallbackColor = "#000000"

// ErrEmptyUpload is returned when an upload carries no image bytes.
var ErrEmptyUpload = errors.New("empty image upload")

// IngestRequest is one classified upload. The label and confidence come from
// the external classifier.
type IngestRequest struct {
	Image      []byte  `json:"-"`
	ClassName  string  `json:"class_name" validate:"required,max=128"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Ingester turns uploads into stored garment records.
type Ingester struct {
	repo   Repository
	images *ImageStore
	logger zerolog.Logger
}

// NewIngester creates an ingester writing to repo and images.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIngester(repo Repository, images *ImageStore, logger zerolog.Logger) *Ingester {
	return &Ingester{
		repo:   repo,
		images: images,
		logger: logger.With().Str("component", "wardrobe").Logger(),
	}
}

// Ingest validates req, derives colour and thickness, stores the photo and
// creates the record. Validation failures are *validation.RequestValidationError.
func (in *Ingester) Ingest(ctx context.Context, req IngestRequest) (*models.GarmentRecord, error) {
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	if len(req.Image) == 0 {
		return nil, ErrEmptyUpload
	}
	img, err := DecodeImage(req.Image)
	if err != nil {
		return nil, err
	}

	colorHex := fallbackColor
	if c, err := DominantColor(img); err != nil {
		in.logger.Warn().Err(err).Msg("Colour extraction failed")
	} else {
		colorHex = HexColor(c)
	}

	name, err := in.images.Save(req.Image)
	if err != nil {
		return nil, err
	}

	rec := &models.GarmentRecord{
		Filename:   name,
		ClassName:  req.ClassName,
		Confidence: req.Confidence,
		ColorHex:   colorHex,
		Thickness:  models.EstimateThickness(req.ClassName),
	}
	if err := in.repo.Create(ctx, rec); err != nil {
		if rmErr := in.images.Remove(name); rmErr != nil {
			in.logger.Warn().Err(rmErr).Str("filename", name).Msg("Failed to remove orphaned image")
		}
		return nil, fmt.Errorf("create garment: %w", err)
	}

	metrics.WardrobeItemsIngested.Inc()
	in.logger.Info().
		Str("id", rec.ID).
		Str("class_name", rec.ClassName).
		Str("color_hex", rec.ColorHex).
		Str("thickness", string(rec.Thickness)).
		Msg("Garment ingested")
	return rec, nil
}
