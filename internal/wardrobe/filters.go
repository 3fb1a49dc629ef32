// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package wardrobe

import (
	"strings"

	"github.com/tomtom215/outfitter/internal/models"
)

// Keyword lists for the outfit endpoint. Unlike the weather buckets these match
// substrings, so "Rain Jacket" counts as a top and "Track Pants" as a bottom.
var (
	topKeywords = []string{
		"shirt", "tshirt", "t-shirt", "blouse", "top", "sweater",
		"sweatshirt", "hoodie", "jacket", "blazer", "waistcoat",
		"kurta", "kurti", "tunic", "nehru", "romper",
	}
	bottomKeywords = []string{
		"pant", "jean", "trouser", "short", "skirt", "legging",
		"churidar", "capri", "track pant", "rain trouser", "tights",
	}
)

// IsTop reports whether the class label names an upper-body garment.
func IsTop(className string) bool {
	return containsAny(className, topKeywords)
}

// IsBottom reports whether the class label names a lower-body garment.
func IsBottom(className string) bool {
	return containsAny(className, bottomKeywords)
}

func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Filter returns the records whose class label satisfies keep.
func Filter(recs []models.GarmentRecord, keep func(string) bool) []models.GarmentRecord {
	out := make([]models.GarmentRecord, 0, len(recs))
	for i := range recs {
		if keep(recs[i].ClassName) {
			out = append(out, recs[i])
		}
	}
	return out
}
