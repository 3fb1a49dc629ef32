// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

const (
	checkpointExt = ".ckpt"
	stagesFile    = "stages.json"
)

// FileRegistry stores versions as {name}_v{version}.ckpt files and stage
// assignments in stages.json, all in one directory.
type FileRegistry struct {
	dir string
	mu  sync.RWMutex

	// versions tracks the highest version per model name.
	versions map[string]int
	// stages maps model name -> stage -> version.
	stages map[string]map[string]int
}

// NewFileRegistry opens (and creates) a registry directory.
func NewFileRegistry(dir string) (*FileRegistry, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create registry directory: %w", err)
	}
	r := &FileRegistry{
		dir:      dir,
		versions: make(map[string]int),
		stages:   make(map[string]map[string]int),
	}
	if err := r.scanModels(); err != nil {
		return nil, fmt.Errorf("scan registry: %w", err)
	}
	if err := r.loadStages(); err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	return r, nil
}

func (r *FileRegistry) scanModels() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), checkpointExt) {
			continue
		}
		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), checkpointExt))
		if name == "" {
			continue
		}
		if current, ok := r.versions[name]; !ok || version > current {
			r.versions[name] = version
		}
	}
	return nil
}

// parseModelFilename splits "wardrobe-compatibility_v3" into name and version.
func parseModelFilename(base string) (string, int) {
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0
	}
	version, err := strconv.Atoi(base[idx+2:])
	if err != nil || version < 1 {
		return "", 0
	}
	return base[:idx], version
}

func (r *FileRegistry) loadStages() error {
	data, err := os.ReadFile(filepath.Join(r.dir, stagesFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &r.stages)
}

// saveStages must be called with mu held for writing.
func (r *FileRegistry) saveStages() error {
	data, err := json.MarshalIndent(r.stages, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(r.dir, stagesFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(r.dir, stagesFile))
}

func (r *FileRegistry) modelPath(name string, version int) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_v%d%s", name, version, checkpointExt))
}

// LatestVersion returns the version assigned to stage, or nil.
func (r *FileRegistry) LatestVersion(_ context.Context, name, stage string) (*VersionRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for s, version := range r.stages[name] {
		if strings.EqualFold(s, stage) {
			return &VersionRef{
				Name:    name,
				Version: strconv.Itoa(version),
				Stage:   s,
				Source:  r.modelPath(name, version),
			}, nil
		}
	}
	return nil, nil
}

// FetchModel reads the checkpoint file of ref.
func (r *FileRegistry) FetchModel(ctx context.Context, ref VersionRef) (*RawModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	version, err := strconv.Atoi(ref.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid version %q", ErrNoVersion, ref.Version)
	}

	r.mu.RLock()
	path := r.modelPath(ref.Name, version)
	r.mu.RUnlock()

	data, err := os.ReadFile(path) //nolint:gosec // path is built from the registry directory
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoVersion, ref.URI())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &RawModel{Ref: ref, Data: data}, nil
}

// Publish stores data as the next version of name and returns that version.
func (r *FileRegistry) Publish(_ context.Context, name string, data []byte) (int, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return 0, fmt.Errorf("invalid model name %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	version := r.versions[name] + 1
	if err := os.WriteFile(r.modelPath(name, version), data, 0o600); err != nil {
		return 0, fmt.Errorf("write model version: %w", err)
	}
	r.versions[name] = version
	return version, nil
}

// Transition assigns version of name to stage.
func (r *FileRegistry) Transition(_ context.Context, name string, version int, stage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.modelPath(name, version)); err != nil {
		return fmt.Errorf("%w: %s v%d", ErrNoVersion, name, version)
	}
	if r.stages[name] == nil {
		r.stages[name] = make(map[string]int)
	}
	r.stages[name][stage] = version
	return r.saveStages()
}

// LatestPublished returns the highest stored version of name.
func (r *FileRegistry) LatestPublished(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.versions[name]
	return v, ok
}
