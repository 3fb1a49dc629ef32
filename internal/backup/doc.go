// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package backup archives the wardrobe: every garment record (as a badger
// backup stream) and the photos those records reference, in one tar.gz per
// backup with a SHA-256 sidecar.
//
// Archive layout:
//
//	metadata.json      Backup description, always the first entry
//	wardrobe.badger    badger DB.Backup stream
//	uploads/<file>     one entry per referenced photo
//
// Retention keeps the newest Retention.MinCount archives plus every archive
// younger than Retention.KeepRecent. Restore is offline: it loads the stream
// into an open DB and writes photos back under their original names.
package backup
