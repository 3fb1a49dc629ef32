// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package registry adapts versioned model registries.
//
// Client is the capability the provisioning subsystem calls: look up the
// latest version of a named model in a deployment stage, then fetch the
// checkpoint bytes for that version. MLflowClient talks to an MLflow
// tracking server over REST, FileRegistry keeps versions and stage
// assignments in a directory, and BreakerClient guards either one with a
// circuit breaker.
package registry
