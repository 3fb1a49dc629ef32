// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package api serves the outfitter HTTP API with the chi router.
//
// Routes (all JSON responses use the models.APIResponse envelope):
//
//	GET  /api/v1/health/live
//	GET  /api/v1/health/ready
//	GET  /api/v1/wardrobe?limit=&class=
//	POST /api/v1/wardrobe                  multipart: file, class_name, confidence
//	GET  /api/v1/wardrobe/{id}
//	GET  /api/v1/images/{filename}         raw photo bytes
//	GET  /api/v1/recommend?city=
//	POST /api/v1/outfits/recommend         {"top_item_ids": [...], "bottom_item_ids": [...]}
//	POST /api/v1/model/reload
//	GET  /api/v1/model/status
//	GET  /api/v1/backups
//	POST /api/v1/backups
//	GET  /metrics
package api
