// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/outfitter/internal/wardrobe"
)

// maxPendingWrites bounds badger's Load batching.
const maxPendingWrites = 256

// RestoreResult summarises a restore.
type RestoreResult struct {
	Backup           Backup `json:"backup"`
	ChecksumVerified bool   `json:"checksum_verified"`
	Images           int    `json:"images_restored"`
}

// Restore loads archivePath into db and images. The archive is checked
// against its sidecar first; a mismatch aborts before anything is written.
// db should not be serving requests.
func Restore(ctx context.Context, archivePath string, db *badger.DB, images *wardrobe.ImageStore) (*RestoreResult, error) {
	verified, err := Verify(archivePath)
	if err != nil {
		return nil, err
	}

	ar, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer ar.Close() //nolint:errcheck // read-only

	res := &RestoreResult{ChecksumVerified: verified}
	sawMetadata, sawDatabase := false, false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := ar.tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		switch {
		case hdr.Name == metadataEntry:
			if err := json.NewDecoder(ar.tr).Decode(&res.Backup); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
			sawMetadata = true
		case hdr.Name == databaseEntry:
			if err := db.Load(ar.tr, maxPendingWrites); err != nil {
				return nil, fmt.Errorf("load wardrobe store: %w", err)
			}
			sawDatabase = true
		case strings.HasPrefix(hdr.Name, uploadsPrefix):
			name := strings.TrimPrefix(hdr.Name, uploadsPrefix)
			if _, err := images.Put(name, ar.tr); err != nil {
				return nil, fmt.Errorf("restore image %s: %w", name, err)
			}
			res.Images++
		}
	}

	if !sawMetadata || !sawDatabase {
		return nil, fmt.Errorf("incomplete backup archive: metadata=%t database=%t", sawMetadata, sawDatabase)
	}
	return res, nil
}
