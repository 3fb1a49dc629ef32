// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package config loads Outfitter configuration.
//
// Values are layered with koanf, lowest priority first:
//
//  1. Compiled defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables, mapped explicitly in envTransformFunc
//
// Only mapped environment variables are read. MLFLOW_TRACKING_URI,
// MLFLOW_MODEL_NAME, MLFLOW_MODEL_STAGE and OPENWEATHER_API_KEY keep the
// names used by existing deployments.
package config
