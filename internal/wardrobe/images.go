// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/outfitter/internal/models"
)

// ErrInvalidFilename is returned for names that are not plain file names.
var ErrInvalidFilename = errors.New("invalid image filename")

// ImageReader reads stored photos by file name.
type ImageReader interface {
	Read(name string) ([]byte, error)
}

// ImageStore keeps photos as files in one directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates dir if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *ImageStore) Dir() string { return s.dir }

// Path resolves name inside the upload directory.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes data under a fresh random name and returns the name.
func (s *ImageStore) Save(data []byte) (string, error) {
	name := NewID()[:16] + ".jpg"
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// Put writes r under name, replacing any existing file. Restores use it to
// keep the original file names.
func (s *ImageStore) Put(name string, r io.Reader) (int64, error) {
	path, err := s.Path(name)
	if err != nil {
		return 0, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640) //nolint:gosec // name is validated by Path
	if err != nil {
		return 0, fmt.Errorf("create image: %w", err)
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("write image: %w", err)
	}
	return n, nil
}

// Exists reports whether name is a stored regular file.
func (s *ImageStore) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the stored bytes of name.
func (s *ImageStore) Read(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Remove deletes name. Missing files are not an error.
func (s *ImageStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// LoadImages reads the photo of every record. Records whose photo is missing,
// unreadable or empty are dropped, so the two results always line up.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func LoadImages(store ImageReader, recs []models.GarmentRecord, logger zerolog.Logger) ([][]byte, []models.GarmentRecord) {
	images := make([][]byte, 0, len(recs))
	kept := make([]models.GarmentRecord, 0, len(recs))
	for i := range recs {
		data, err := store.Read(recs[i].Filename)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str("id", recs[i].ID).Str("filename", recs[i].Filename).
				Msg("Garment image unavailable, skipping")
			continue
		case len(data) == 0:
			logger.Warn().Str("id", recs[i].ID).Str("filename", recs[i].Filename).
				Msg("Garment image is empty, skipping")
			continue
		}
		images = append(images, data)
		kept = append(kept, recs[i])
	}
	return images, kept
}
