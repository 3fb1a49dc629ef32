// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package compat scores top/bottom garment pairs with the provisioned
// compatibility model and ranks the resulting outfits.
//
// Images are decoded (JPEG, PNG, GIF, WebP, BMP), resized to the model's
// square input with bilinear filtering and normalised per channel with the
// ImageNet mean and standard deviation. Every (top, bottom) pair is scored
// independently; pairs run in parallel up to the model device's parallelism.
package compat
