// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

/*
Package weather ranks wardrobe items by suitability for the current weather
and assembles an outfit suggestion.

Items are sorted into four buckets (top, shorts, bottom, outer) by exact,
case-insensitive class label. Each item starts at 5.0 and is adjusted for
temperature by bucket and thickness, for rain, drizzle and snow, and by the
classifier confidence, then clamped to [0,10] and rounded to two decimals.

The suggestion takes the best top, the better of the best shorts and the
best long bottom (shorts must score strictly higher), and the best outer
layer only when it reaches 5.0. Advisory notes cover colour contrast, cold,
heat and rain.

OpenWeatherSource fetches live observations. Any failure yields nil and the
caller falls back to a default observation; weather trouble never fails a
request.
*/
package weather
