// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package provision

import (
	"fmt"

	"github.com/tomtom215/outfitter/internal/checkpoint"
	"github.com/tomtom215/outfitter/internal/metrics"
	"github.com/tomtom215/outfitter/internal/siamese"
)

// buildNetwork decodes checkpoint bytes into a populated network.
func (p *Provisioner) buildNetwork(data []byte) (*siamese.Network, LoadResult, error) {
	ck, err := checkpoint.Decode(data)
	if err != nil {
		return nil, LoadResult{}, err
	}

	var warnings []string
	if err := ck.Verify(); err != nil {
		warnings = append(warnings, err.Error())
	}

	params, section := ck.Payload.Parameters()
	if len(params) == 0 {
		return nil, LoadResult{}, ErrEmptyCheckpoint
	}

	arch := p.opts.Architecture
	if ck.Payload.Architecture != nil {
		arch = *ck.Payload.Architecture
	}

	variant := siamese.ClassifyVariant(params.Keys())
	if p.opts.Variant != "auto" {
		variant, _ = siamese.ParseVariant(p.opts.Variant)
	}

	net, err := siamese.New(arch, variant, p.opts.Seed)
	if err != nil {
		return nil, LoadResult{}, fmt.Errorf("build %s network: %w", variant, err)
	}

	result := applyParameters(net, params, p.opts.ReconcileThreshold)
	result.Section = string(section)
	result.Warnings = append(warnings, result.Warnings...)
	return net, result, nil
}

// applyParameters loads params non-strictly and runs one reconciliation
// pass when more than threshold of the expected keys are missing.
func applyParameters(net *siamese.Network, params siamese.StateDict, threshold float64) LoadResult {
	target := net.Keys()
	report := net.Load(params)

	result := LoadResult{
		Variant:                net.Variant().String(),
		ExpectedKeys:           len(target),
		SavedKeys:              len(params),
		MissingBeforeReconcile: len(report.Missing),
	}

	if len(target) > 0 && float64(len(report.Missing))/float64(len(target)) > threshold {
		mapping := siamese.Reconcile(params.Keys(), target)
		report = net.Load(siamese.Remap(params, mapping))
		result.Reconciled = true
		metrics.ModelReconciliations.Inc()
	}

	result.LoadedKeys = len(report.Loaded)
	result.MissingKeys = len(report.Missing)
	result.UnexpectedKeys = len(report.Unexpected)
	result.ShapeMismatched = len(report.ShapeMismatched)

	if result.MissingKeys > 0 {
		result.Warnings = append(result.Warnings, describeMissing(&result))
	}
	if result.ShapeMismatched > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d parameters skipped on shape mismatch", result.ShapeMismatched))
	}
	if result.UnexpectedKeys > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d saved parameters not used by the %s layout", result.UnexpectedKeys, result.Variant))
	}
	return result
}
