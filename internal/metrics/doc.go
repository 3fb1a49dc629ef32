// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// Collectors are package-level promauto variables. Callers use the Record*
// helpers so label values stay consistent.
package metrics
