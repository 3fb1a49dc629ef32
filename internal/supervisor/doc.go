// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package supervisor runs the server's long-lived components under a suture
// supervision tree.
//
// The tree has three layers so a crash in one does not take down the others:
//
//	outfitter
//	├── data-layer   event audit subscriber
//	├── model-layer  one-shot model warm-up
//	└── api-layer    HTTP server
//
// Supervisor events are logged through sutureslog and the zerolog slog adapter.
package supervisor
