// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

/*
Package middleware provides the chi-compatible HTTP middleware shared by the
API router.

  - RequestID: accepts or generates X-Request-ID and seeds the logging context
    with request and correlation ids
  - PrometheusMetrics: records request counts and latency per route pattern
  - AccessLog: one structured log line per request

Route patterns rather than raw paths label the metrics, so /api/v1/wardrobe/{id}
is one series no matter how many garments exist.
*/
package middleware
