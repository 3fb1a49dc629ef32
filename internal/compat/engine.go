// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package compat

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/outfitter/internal/metrics"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/provision"
	"github.com/tomtom215/outfitter/internal/siamese"
)

// ModelSource supplies the active model. *provision.Provisioner implements it.
type ModelSource interface {
	Obtain(ctx context.Context, force bool) (*provision.Handle, error)
}

// OutfitCandidate is one scored pair.
type OutfitCandidate struct {
	Top    models.GarmentRecord `json:"top"`
	Bottom models.GarmentRecord `json:"bottom"`
	Score  float64              `json:"score"`
}

// Engine scores and ranks garment pairs.
type Engine struct {
	models ModelSource
	logger zerolog.Logger
}

// NewEngine creates an engine that obtains its model from src.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(src ModelSource, logger zerolog.Logger) *Engine {
	return &Engine{
		models: src,
		logger: logger.With().Str("component", "compat").Logger(),
	}
}

// ComputeBatch returns a len(tops) x len(bottoms) matrix of scores in [0,1].
// A decode failure aborts the batch with an *ImagePreprocessingError naming
// the image.
func (e *Engine) ComputeBatch(ctx context.Context, tops, bottoms [][]byte) ([][]float64, error) {
	h, err := e.models.Obtain(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("obtain model: %w", err)
	}

	pre := Preprocessor{Size: h.Model.InputSize()}
	topTensors, err := preprocessAll(pre, "top", tops)
	if err != nil {
		return nil, err
	}
	bottomTensors, err := preprocessAll(pre, "bottom", bottoms)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scores := make([][]float64, len(topTensors))
	for i := range scores {
		scores[i] = make([]float64, len(bottomTensors))
	}

	g, gctx := errgroup.WithContext(ctx)
	// SetLimit(0) would block every Go call.
	g.SetLimit(max(h.Device.Parallelism, 1))
	for i := range topTensors {
		for j := range bottomTensors {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				s, err := h.Model.Score(topTensors[i], bottomTensors[j])
				if err != nil {
					return fmt.Errorf("score pair (%d, %d): %w", i, j, err)
				}
				scores[i][j] = s
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := len(topTensors) * len(bottomTensors)
	metrics.RecordScoreBatch(pairs, time.Since(start))
	e.logger.Debug().Int("tops", len(topTensors)).Int("bottoms", len(bottomTensors)).
		Dur("duration", time.Since(start)).Str("model", h.Provenance.String()).Msg("Scored batch")
	return scores, nil
}

func preprocessAll(pre Preprocessor, side string, images [][]byte) ([]*siamese.Tensor, error) {
	out := make([]*siamese.Tensor, len(images))
	for i, data := range images {
		t, err := pre.Tensor(data)
		if err != nil {
			metrics.PreprocessErrors.Inc()
			return nil, &ImagePreprocessingError{Side: side, Index: i, Err: err}
		}
		out[i] = t
	}
	return out, nil
}

// BestOutfits scores every pair and returns at most k candidates ordered by
// score. Image and metadata lists are trimmed to their common length; an
// empty side yields an empty result.
func (e *Engine) BestOutfits(ctx context.Context, topImages, bottomImages [][]byte,
	topMeta, bottomMeta []models.GarmentRecord, k int) ([]OutfitCandidate, error) {
	nt := min(len(topImages), len(topMeta))
	nb := min(len(bottomImages), len(bottomMeta))
	if nt == 0 || nb == 0 {
		return []OutfitCandidate{}, nil
	}

	scores, err := e.ComputeBatch(ctx, topImages[:nt], bottomImages[:nb])
	if err != nil {
		return nil, err
	}
	return RankPairs(scores, topMeta[:nt], bottomMeta[:nb], k), nil
}

// RankPairs pairs every top with every bottom, skipping indices the score
// matrix does not cover, sorts by score descending and keeps the first k.
// Equal scores keep enumeration order (tops outer, bottoms inner).
func RankPairs(scores [][]float64, tops, bottoms []models.GarmentRecord, k int) []OutfitCandidate {
	out := make([]OutfitCandidate, 0, len(tops)*len(bottoms))
	for i := range tops {
		if i >= len(scores) {
			break
		}
		for j := range bottoms {
			if j >= len(scores[i]) {
				break
			}
			out = append(out, OutfitCandidate{Top: tops[i], Bottom: bottoms[j], Score: scores[i][j]})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })

	if k < 0 {
		k = 0
	}
	if len(out) > k {
		out = out[:k]
	}
	return out
}
