// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package weather

import (
	"strings"

	"github.com/tomtom215/outfitter/internal/models"
)

// Bucket is a weather scoring category.
type Bucket string

const (
	BucketTop    Bucket = "top"
	BucketShorts Bucket = "shorts"
	BucketBottom Bucket = "bottom"
	BucketOuter  Bucket = "outer"
)

// bucketOrder is the assignment precedence: a label listed in two
// vocabularies lands in the earlier bucket.
var bucketOrder = []Bucket{BucketTop, BucketShorts, BucketBottom, BucketOuter}

var vocabulary = map[Bucket]map[string]struct{}{
	BucketTop: set("tshirt", "t-shirt", "shirt", "blouse", "dress", "sweatshirt",
		"sweater", "tunic", "kurta", "kurti"),
	BucketShorts: set("shorts", "short", "swimwear", "capri"),
	BucketBottom: set("pants", "jeans", "trousers", "track pants", "leggings",
		"churidar", "tights", "rain trousers"),
	BucketOuter: set("jacket", "coat", "sweater", "hoodie", "blazer", "rain jacket",
		"nehru jackets", "waistcoat"),
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// BucketOf returns the bucket of a class label.
func BucketOf(className string) (Bucket, bool) {
	key := strings.ToLower(strings.TrimSpace(className))
	for _, b := range bucketOrder {
		if _, ok := vocabulary[b][key]; ok {
			return b, true
		}
	}
	return "", false
}

// Buckets holds categorised items in input order.
type Buckets struct {
	Tops    []models.GarmentRecord
	Shorts  []models.GarmentRecord
	Bottoms []models.GarmentRecord
	Outers  []models.GarmentRecord
}

// Categorize sorts items into buckets. Items with no bucket are dropped.
func Categorize(items []models.GarmentRecord) Buckets {
	var b Buckets
	for _, item := range items {
		bucket, ok := BucketOf(item.ClassName)
		if !ok {
			continue
		}
		switch bucket {
		case BucketTop:
			b.Tops = append(b.Tops, item)
		case BucketShorts:
			b.Shorts = append(b.Shorts, item)
		case BucketBottom:
			b.Bottoms = append(b.Bottoms, item)
		case BucketOuter:
			b.Outers = append(b.Outers, item)
		}
	}
	return b
}
