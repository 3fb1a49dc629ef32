// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package siamese

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInputShape is returned when an input tensor does not match the
// architecture.
var ErrInputShape = errors.New("input tensor shape mismatch")

// ErrNonFinite is returned when a forward pass produces NaN or Inf.
var ErrNonFinite = errors.New("non-finite compatibility score")

// ApplyReport describes a non-strict parameter load.
type ApplyReport struct {
	Loaded          []string
	Missing         []string
	Unexpected      []string
	ShapeMismatched []string
}

// Network is an inference-only compatibility model. Load must not run
// concurrently with Score; once published a Network is read-only.
type Network struct {
	arch    Architecture
	variant Variant
	layout  []ParamSpec
	params  map[string]*Tensor
}

// New builds a network with deterministic, seed-derived parameters.
func New(arch Architecture, variant Variant, seed int64) (*Network, error) {
	if err := arch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid architecture: %w", err)
	}
	n := &Network{
		arch:    arch,
		variant: variant,
		layout:  Layout(arch, variant),
		params:  make(map[string]*Tensor),
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic init, not security sensitive
	for _, spec := range n.layout {
		t := NewTensor(spec.Shape...)
		fanIn := spec.Shape[len(spec.Shape)-1]
		if len(spec.Shape) == 1 {
			fanIn = spec.Shape[0]
		}
		bound := float32(1 / math.Sqrt(float64(fanIn)))
		for i := range t.Data {
			t.Data[i] = (rng.Float32()*2 - 1) * bound
		}
		n.params[spec.Key] = t
	}
	return n, nil
}

// Architecture returns the network shape.
func (n *Network) Architecture() Architecture { return n.arch }

// Variant returns the backbone key layout.
func (n *Network) Variant() Variant { return n.variant }

// InputSize is the expected square image side.
func (n *Network) InputSize() int { return n.arch.InputSize }

// Keys lists the expected parameter keys in layout order.
func (n *Network) Keys() []string {
	keys := make([]string, len(n.layout))
	for i, spec := range n.layout {
		keys[i] = spec.Key
	}
	return keys
}

// Load copies matching parameters from sd. Unknown keys and keys whose shape
// disagrees are reported and skipped.
func (n *Network) Load(sd StateDict) ApplyReport {
	var report ApplyReport
	loaded := make(map[string]bool, len(sd))

	for _, k := range sd.Keys() {
		src := sd[k]
		dst, ok := n.params[k]
		if !ok {
			report.Unexpected = append(report.Unexpected, k)
			continue
		}
		if !SameShape(dst.Shape, src.Shape) || len(src.Data) != len(dst.Data) {
			report.ShapeMismatched = append(report.ShapeMismatched, k)
			continue
		}
		copy(dst.Data, src.Data)
		loaded[k] = true
		report.Loaded = append(report.Loaded, k)
	}

	for _, spec := range n.layout {
		if !loaded[spec.Key] {
			report.Missing = append(report.Missing, spec.Key)
		}
	}
	return report
}

// StateDict returns a copy of every parameter.
func (n *Network) StateDict() StateDict {
	sd := make(StateDict, len(n.params))
	for k, t := range n.params {
		sd[k] = Tensor{
			Shape: append([]int(nil), t.Shape...),
			Data:  append([]float32(nil), t.Data...),
		}
	}
	return sd
}

// Embed maps a [C, S, S] image tensor to an L2-normalised embedding.
func (n *Network) Embed(x *Tensor) ([]float32, error) {
	s := n.arch.InputSize
	if !SameShape(x.Shape, []int{n.arch.InChannels, s, s}) || len(x.Data) != x.Numel() {
		return nil, fmt.Errorf("%w: got %v, want [%d %d %d]", ErrInputShape, x.Shape, n.arch.InChannels, s, s)
	}

	feat := n.backbone(x.Data, n.arch.InChannels, s)

	h := n.linear("embedding.2", feat)
	relu(h)
	e := n.linear("embedding.5", h)
	normalize(e)
	return e, nil
}

// Score returns the compatibility of a top and a bottom image.
func (n *Network) Score(top, bottom *Tensor) (float64, error) {
	e1, err := n.Embed(top)
	if err != nil {
		return 0, fmt.Errorf("top: %w", err)
	}
	e2, err := n.Embed(bottom)
	if err != nil {
		return 0, fmt.Errorf("bottom: %w", err)
	}

	z := make([]float32, 0, len(e1)+len(e2))
	z = append(z, e1...)
	z = append(z, e2...)

	h := n.linear("compatibility_head.0", z)
	relu(h)
	h = n.linear("compatibility_head.3", h)
	relu(h)
	out := n.linear("compatibility_head.6", h)

	score := sigmoid(float64(out[0]))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, ErrNonFinite
	}
	return score, nil
}

// backbone runs every stage (2x2 average pool, pointwise projection, ReLU6)
// and global-average-pools the result.
func (n *Network) backbone(x []float32, channels, side int) []float32 {
	for i, out := range n.arch.Stages {
		pooled, half := avgPool2(x, channels, side)
		w := n.params[backboneKey(n.variant, i, "weight")].Data
		b := n.params[backboneKey(n.variant, i, "bias")].Data

		plane := half * half
		y := make([]float32, out*plane)
		for o := 0; o < out; o++ {
			row := w[o*channels : (o+1)*channels]
			dst := y[o*plane : (o+1)*plane]
			for p := range dst {
				dst[p] = b[o]
			}
			for c, wc := range row {
				if wc == 0 {
					continue
				}
				src := pooled[c*plane : (c+1)*plane]
				for p, v := range src {
					dst[p] += wc * v
				}
			}
			for p, v := range dst {
				dst[p] = relu6(v)
			}
		}
		x, channels, side = y, out, half
	}

	plane := side * side
	feat := make([]float32, channels)
	for c := range feat {
		var sum float32
		for _, v := range x[c*plane : (c+1)*plane] {
			sum += v
		}
		feat[c] = sum / float32(plane)
	}
	return feat
}

func (n *Network) linear(prefix string, in []float32) []float32 {
	w := n.params[prefix+".weight"]
	b := n.params[prefix+".bias"].Data
	rows, cols := w.Shape[0], w.Shape[1]
	out := make([]float32, rows)
	for r := 0; r < rows; r++ {
		sum := b[r]
		row := w.Data[r*cols : (r+1)*cols]
		for c, v := range row {
			sum += v * in[c]
		}
		out[r] = sum
	}
	return out
}

func avgPool2(x []float32, channels, side int) ([]float32, int) {
	half := side / 2
	out := make([]float32, channels*half*half)
	for c := 0; c < channels; c++ {
		src := x[c*side*side : (c+1)*side*side]
		dst := out[c*half*half : (c+1)*half*half]
		for r := 0; r < half; r++ {
			for col := 0; col < half; col++ {
				i := 2*r*side + 2*col
				dst[r*half+col] = (src[i] + src[i+1] + src[i+side] + src[i+side+1]) / 4
			}
		}
	}
	return out, half
}

func relu(v []float32) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

func relu6(x float32) float32 {
	switch {
	case x < 0:
		return 0
	case x > 6:
		return 6
	default:
		return x
	}
}

// normalize scales v to unit L2 norm, with the same 1e-12 floor torch uses.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Max(math.Sqrt(sum), 1e-12)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
