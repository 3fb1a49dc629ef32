// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package logging provides the process-wide zerolog logger for Outfitter.
//
// Call Init once from main. Components derive their own child logger with
// WithComponent and keep it by value:
//
//	logger := logging.WithComponent("provision")
//	logger.Info().Str("source", "registry").Msg("Model loaded")
//
// Request-scoped logging carries the request and correlation IDs that the
// API middleware stores in the context:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("Weather lookup failed")
//
// Libraries that only accept *slog.Logger (the suture event hook) are given
// NewSlogLogger, which forwards records to zerolog.
package logging
