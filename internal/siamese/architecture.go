// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package siamese

import "fmt"

// Architecture fixes the tensor shapes of a network.
type Architecture struct {
	// InputSize is the side of the square input image.
	InputSize int `json:"input_size"`

	// InChannels is 3 for RGB input.
	InChannels int `json:"in_channels"`

	// Stages lists the output channels of each backbone stage. Every stage
	// halves the spatial resolution. The last entry is the feature width.
	Stages []int `json:"stages"`

	// EmbeddingDim is the width of each garment embedding.
	EmbeddingDim int `json:"embedding_dim"`

	// Hidden holds the two hidden widths of the scoring head.
	Hidden []int `json:"hidden"`
}

// DefaultArchitecture matches the checkpoints produced by the trainer:
// 128x128 RGB input, 1280-wide features, 128-wide embeddings and a
// 256/128 head.
func DefaultArchitecture() Architecture {
	return Architecture{
		InputSize:    128,
		InChannels:   3,
		Stages:       []int{16, 32, 64, 1280},
		EmbeddingDim: 128,
		Hidden:       []int{256, 128},
	}
}

// FeatureDim is the backbone output width.
func (a Architecture) FeatureDim() int {
	if len(a.Stages) == 0 {
		return a.InChannels
	}
	return a.Stages[len(a.Stages)-1]
}

// Validate checks that the shapes are consistent.
func (a Architecture) Validate() error {
	if a.InChannels < 1 {
		return fmt.Errorf("in_channels must be positive, got %d", a.InChannels)
	}
	if len(a.Stages) == 0 {
		return fmt.Errorf("at least one backbone stage is required")
	}
	if a.InputSize < 1 || a.InputSize%(1<<len(a.Stages)) != 0 {
		return fmt.Errorf("input_size %d must be a positive multiple of %d", a.InputSize, 1<<len(a.Stages))
	}
	for i, c := range a.Stages {
		if c < 1 {
			return fmt.Errorf("stage %d width must be positive, got %d", i, c)
		}
	}
	if a.EmbeddingDim < 1 {
		return fmt.Errorf("embedding_dim must be positive, got %d", a.EmbeddingDim)
	}
	if len(a.Hidden) != 2 || a.Hidden[0] < 1 || a.Hidden[1] < 1 {
		return fmt.Errorf("hidden must hold two positive widths, got %v", a.Hidden)
	}
	return nil
}
