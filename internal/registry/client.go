// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package registry

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable wraps transport and server errors.
	ErrUnavailable = errors.New("registry unavailable")

	// ErrNoVersion is returned when a referenced version does not exist.
	ErrNoVersion = errors.New("model version not found")

	// ErrArtifactTooLarge is returned when a download exceeds the size cap.
	ErrArtifactTooLarge = errors.New("model artifact too large")
)

// VersionRef identifies one registered model version.
type VersionRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Stage   string `json:"stage"`
	RunID   string `json:"run_id,omitempty"`
	Source  string `json:"source,omitempty"`
}

// URI is the registry URI of the version, models:/<name>/<version>.
func (r VersionRef) URI() string {
	return fmt.Sprintf("models:/%s/%s", r.Name, r.Version)
}

// RawModel is a fetched checkpoint.
type RawModel struct {
	Ref  VersionRef
	Data []byte
}

// Client is a versioned model registry.
type Client interface {
	// LatestVersion returns the newest version of name in stage. A nil ref
	// with a nil error means the stage has no versions.
	LatestVersion(ctx context.Context, name, stage string) (*VersionRef, error)

	// FetchModel downloads the checkpoint of ref.
	FetchModel(ctx context.Context, ref VersionRef) (*RawModel, error)
}
