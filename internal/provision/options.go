// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package provision

import (
	"fmt"
	"runtime"

	"github.com/tomtom215/outfitter/internal/config"
	"github.com/tomtom215/outfitter/internal/siamese"
)

// Options controls where and how a model is loaded.
type Options struct {
	ModelName string
	Stage     string

	// Precedence is config.PrecedenceRegistryFirst or config.PrecedenceLocalFirst.
	Precedence string

	CandidatePaths []string

	// ReconcileThreshold is the missing-key fraction above which keys are
	// reconciled.
	ReconcileThreshold float64

	// Variant is auto, flat or wrapped.
	Variant string

	// Device is auto or cpu.
	Device string

	Seed         int64
	Architecture siamese.Architecture
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		ModelName:          "wardrobe-compatibility",
		Stage:              "Production",
		Precedence:         config.PrecedenceRegistryFirst,
		ReconcileThreshold: 0.3,
		Variant:            "auto",
		Device:             "auto",
		Seed:               42,
		Architecture:       siamese.DefaultArchitecture(),
	}
}

// OptionsFromConfig builds Options from the model configuration section.
func OptionsFromConfig(cfg *config.ModelConfig) Options {
	opts := DefaultOptions()
	opts.ModelName = cfg.Name
	opts.Stage = cfg.Stage
	opts.Precedence = cfg.Precedence
	opts.CandidatePaths = append([]string(nil), cfg.CandidatePaths...)
	opts.ReconcileThreshold = cfg.ReconcileThreshold
	if cfg.Variant != "" {
		opts.Variant = cfg.Variant
	}
	if cfg.Device != "" {
		opts.Device = cfg.Device
	}
	if cfg.Seed != 0 {
		opts.Seed = cfg.Seed
	}
	return opts
}

func (o *Options) validate() error {
	if o.Precedence != config.PrecedenceRegistryFirst && o.Precedence != config.PrecedenceLocalFirst {
		return fmt.Errorf("unknown precedence %q", o.Precedence)
	}
	if o.ReconcileThreshold < 0 || o.ReconcileThreshold > 1 {
		return fmt.Errorf("reconcile threshold %v outside [0,1]", o.ReconcileThreshold)
	}
	if o.Variant != "auto" {
		if _, ok := siamese.ParseVariant(o.Variant); !ok {
			return fmt.Errorf("unknown variant %q", o.Variant)
		}
	}
	if o.Device != "auto" && o.Device != "cpu" {
		return fmt.Errorf("unknown device %q", o.Device)
	}
	if err := o.Architecture.Validate(); err != nil {
		return fmt.Errorf("architecture: %w", err)
	}
	return nil
}

// Device is the compute context a model runs on. Inference is pure Go, so
// the only choice is how many pairs may be scored at once.
type Device struct {
	Name        string `json:"name"`
	Parallelism int    `json:"parallelism"`
}

func selectDevice(name string) Device {
	if name == "cpu" {
		return Device{Name: "cpu", Parallelism: 1}
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return Device{Name: fmt.Sprintf("cpu:%d", n), Parallelism: n}
}
