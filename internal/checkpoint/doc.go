// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package checkpoint reads and writes compatibility model checkpoints and
// locates them on disk.
//
// # File Format
//
// A checkpoint is a gob-encoded envelope holding Metadata and a gzip
// compressed payload. The payload is a gob-encoded Payload. Metadata carries
// the SHA-256 of the uncompressed payload; Decode verifies it and reports the
// result in Checkpoint.ChecksumValid rather than failing, so a caller can
// still serve a model whose metadata was rewritten by hand.
//
// # Store
//
// Store is the read-only accessor used during the local search. FileStore
// resolves relative candidate paths against a root directory and never
// creates files.
package checkpoint
