// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package provision

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/outfitter/internal/siamese"
)

// State is a step of the provisioning state machine.
type State string

const (
	StateUnloaded       State = "UNLOADED"
	StateRegistryLookup State = "REGISTRY_LOOKUP"
	StateLocalSearch    State = "LOCAL_SEARCH"
	StateLoaded         State = "LOADED"
	StateFailed         State = "FAILED"
)

// Source is where a handle was loaded from.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceLocal    Source = "local"
)

var (
	// ErrModelNotFound matches every ModelNotFoundError.
	ErrModelNotFound = errors.New("model not found")

	// ErrNoRegistryVersion means the configured stage has no versions.
	ErrNoRegistryVersion = errors.New("no registry version available")

	// ErrNoRegistry means a registry-only load was requested without a
	// registry client.
	ErrNoRegistry = errors.New("no model registry configured")

	// ErrEmptyCheckpoint means a checkpoint decoded but carried no parameters.
	ErrEmptyCheckpoint = errors.New("checkpoint has no parameters")
)

// ModelNotFoundError is returned when no source produced a model. Probed
// lists every local path that was checked.
type ModelNotFoundError struct {
	Probed      []string
	RegistryErr error
}

func (e *ModelNotFoundError) Error() string {
	var b strings.Builder
	b.WriteString("model not found")
	if len(e.Probed) > 0 {
		b.WriteString("; probed: ")
		b.WriteString(strings.Join(e.Probed, ", "))
	}
	if e.RegistryErr != nil {
		b.WriteString("; registry: ")
		b.WriteString(e.RegistryErr.Error())
	}
	return b.String()
}

// Is makes errors.Is(err, ErrModelNotFound) true.
func (e *ModelNotFoundError) Is(target error) bool {
	return target == ErrModelNotFound
}

// Model scores preprocessed garment pairs. *siamese.Network implements it.
type Model interface {
	Score(top, bottom *siamese.Tensor) (float64, error)
	InputSize() int
}

// Provenance identifies where the active model came from.
type Provenance struct {
	Source  Source `json:"source"`
	URI     string `json:"uri,omitempty"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

func (p Provenance) String() string {
	if p.URI != "" {
		return p.URI
	}
	return p.Path
}

// LoadResult describes how completely a checkpoint populated the model.
type LoadResult struct {
	Variant string `json:"variant"`
	Section string `json:"section"`

	ExpectedKeys    int `json:"expected_keys"`
	SavedKeys       int `json:"saved_keys"`
	LoadedKeys      int `json:"loaded_keys"`
	MissingKeys     int `json:"missing_keys"`
	UnexpectedKeys  int `json:"unexpected_keys"`
	ShapeMismatched int `json:"shape_mismatched"`

	// MissingBeforeReconcile is the missing count after the direct pass.
	MissingBeforeReconcile int  `json:"missing_before_reconcile"`
	Reconciled             bool `json:"reconciled"`

	Warnings []string `json:"warnings,omitempty"`
}

// MissingFraction is MissingKeys / ExpectedKeys.
func (r *LoadResult) MissingFraction() float64 {
	if r.ExpectedKeys == 0 {
		return 0
	}
	return float64(r.MissingKeys) / float64(r.ExpectedKeys)
}

// Complete reports full key coverage.
func (r *LoadResult) Complete() bool {
	return r.MissingKeys == 0 && r.ShapeMismatched == 0
}

// Handle is an immutable loaded model. A reload produces a new Handle.
type Handle struct {
	Model      Model
	Provenance Provenance
	Device     Device
	LoadedAt   time.Time
	Result     LoadResult
}

// Status is a point-in-time view of the provisioner.
type Status struct {
	State       State       `json:"state"`
	Provenance  *Provenance `json:"provenance,omitempty"`
	Device      *Device     `json:"device,omitempty"`
	LoadedAt    *time.Time  `json:"loaded_at,omitempty"`
	Result      *LoadResult `json:"result,omitempty"`
	LastError   string      `json:"last_error,omitempty"`
	LastAttempt *time.Time  `json:"last_attempt,omitempty"`
}

func describeMissing(r *LoadResult) string {
	return fmt.Sprintf("partial load: %d of %d parameters missing, seeded values kept", r.MissingKeys, r.ExpectedKeys)
}
