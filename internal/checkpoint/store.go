// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a read-only view of candidate checkpoint locations.
type Store interface {
	Exists(path string) bool
	ReadBytes(path string) ([]byte, error)
}

// FileStore reads from the local filesystem. Relative paths resolve against
// Root; an empty Root means the working directory.
type FileStore struct {
	Root string
}

// Resolve returns the absolute or root-joined form of path.
func (s FileStore) Resolve(path string) string {
	if s.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Root, path)
}

// Exists reports whether path names a regular file.
func (s FileStore) Exists(path string) bool {
	info, err := os.Stat(s.Resolve(path))
	return err == nil && info.Mode().IsRegular()
}

// ReadBytes returns the file contents.
func (s FileStore) ReadBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(s.Resolve(path)) //nolint:gosec // candidate paths come from configuration
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	return data, nil
}

// Probe returns the first candidate that exists, its resolved path, and
// every path it looked at in resolved form.
func Probe(store Store, candidates []string) (found, resolved string, probed []string) {
	probed = make([]string, 0, len(candidates))
	for _, c := range candidates {
		r := c
		if res, ok := store.(interface{ Resolve(string) string }); ok {
			r = res.Resolve(c)
		}
		probed = append(probed, r)
		if store.Exists(c) {
			return c, r, probed
		}
	}
	return "", "", probed
}
