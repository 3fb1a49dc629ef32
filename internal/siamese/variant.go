// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package siamese

import (
	"strconv"
	"strings"
)

// Variant names a backbone key layout.
type Variant int

const (
	// VariantFlat stores backbone stages as backbone.<stage>.*.
	VariantFlat Variant = iota
	// VariantWrapped nests the backbone one level deeper: backbone.0.<stage>.*.
	VariantWrapped
)

func (v Variant) String() string {
	switch v {
	case VariantFlat:
		return "flat"
	case VariantWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// ParseVariant accepts "flat" or "wrapped".
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(s) {
	case "flat":
		return VariantFlat, true
	case "wrapped":
		return VariantWrapped, true
	}
	return VariantFlat, false
}

const backbonePrefix = "backbone."

// ClassifyVariant inspects saved key names. A backbone key whose first two
// path segments after "backbone." are both numeric marks the wrapped layout;
// anything else is flat.
func ClassifyVariant(keys []string) Variant {
	for _, k := range keys {
		if !strings.HasPrefix(k, backbonePrefix) {
			continue
		}
		parts := strings.Split(k[len(backbonePrefix):], ".")
		if len(parts) >= 3 && isIndex(parts[0]) && isIndex(parts[1]) {
			return VariantWrapped
		}
	}
	return VariantFlat
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// ParamSpec is one entry of a key layout.
type ParamSpec struct {
	Key   string
	Shape []int
}

// Layout lists every parameter the network expects, in a fixed order.
func Layout(arch Architecture, v Variant) []ParamSpec {
	specs := make([]ParamSpec, 0, 2*len(arch.Stages)+10)
	in := arch.InChannels
	for i, out := range arch.Stages {
		specs = append(specs,
			ParamSpec{Key: backboneKey(v, i, "weight"), Shape: []int{out, in}},
			ParamSpec{Key: backboneKey(v, i, "bias"), Shape: []int{out}},
		)
		in = out
	}

	e := arch.EmbeddingDim
	h0, h1 := arch.Hidden[0], arch.Hidden[1]
	specs = append(specs,
		ParamSpec{Key: "embedding.2.weight", Shape: []int{e, arch.FeatureDim()}},
		ParamSpec{Key: "embedding.2.bias", Shape: []int{e}},
		ParamSpec{Key: "embedding.5.weight", Shape: []int{e, e}},
		ParamSpec{Key: "embedding.5.bias", Shape: []int{e}},
		ParamSpec{Key: "compatibility_head.0.weight", Shape: []int{h0, 2 * e}},
		ParamSpec{Key: "compatibility_head.0.bias", Shape: []int{h0}},
		ParamSpec{Key: "compatibility_head.3.weight", Shape: []int{h1, h0}},
		ParamSpec{Key: "compatibility_head.3.bias", Shape: []int{h1}},
		ParamSpec{Key: "compatibility_head.6.weight", Shape: []int{1, h1}},
		ParamSpec{Key: "compatibility_head.6.bias", Shape: []int{1}},
	)
	return specs
}

func backboneKey(v Variant, stage int, suffix string) string {
	if v == VariantWrapped {
		return backbonePrefix + "0." + strconv.Itoa(stage) + "." + suffix
	}
	return backbonePrefix + strconv.Itoa(stage) + "." + suffix
}
