// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package wardrobe stores classified garments and their photos.
//
// Records live in badger under the "item:" prefix as JSON values; photos live
// as files in an upload directory and are referenced by file name. Records
// are never updated after creation.
//
// Ingest turns an uploaded photo plus an externally produced class label into
// a record: it derives the dominant colour from the non-background pixels and
// the thickness category from the label, stores the photo and creates the
// record.
package wardrobe
