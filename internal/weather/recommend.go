// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package weather

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/outfitter/internal/models"
)

// TopPerBucket is how many ranked items each bucket reports.
const TopPerBucket = 3

// Advisory notes.
const (
	NoteLowContrast = "Colors are similar; consider contrast."
	NoteCold        = "Cold weather - consider layering with warm outerwear"
	NoteWarm        = "Warm weather - lighter clothing recommended"
	NoteRain        = "Rainy conditions - consider waterproof items"
)

const (
	coldBelowC       = 10.0
	warmFromC        = 25.0
	contrastMinDelta = 30.0
)

// RatedItem is an item with its weather score.
type RatedItem struct {
	Item  models.GarmentRecord `json:"item"`
	Score float64              `json:"weather_score"`
}

// Suggestion is the single best outfit. Any slot may be nil.
type Suggestion struct {
	Shirt *models.GarmentRecord `json:"shirt"`
	Pant  *models.GarmentRecord `json:"pant"`
	Outer *models.GarmentRecord `json:"outer"`
}

// Rankings are the leading items of each bucket.
type Rankings struct {
	Tops    []RatedItem `json:"tops"`
	Shorts  []RatedItem `json:"shorts"`
	Bottoms []RatedItem `json:"bottoms"`
	Outers  []RatedItem `json:"outers"`
}

// Recommendation is the full result for one observation.
type Recommendation struct {
	Weather         models.WeatherObservation `json:"weather"`
	Suggestion      Suggestion                `json:"suggestion"`
	Recommendations Rankings                  `json:"recommendations"`
	Notes           []string                  `json:"notes"`
}

// Recommend scores items against obs and assembles a suggestion.
//
//nolint:gocritic // obs passed by value, it is small and read-only
func Recommend(items []models.GarmentRecord, obs models.WeatherObservation) *Recommendation {
	b := Categorize(items)
	tops := rank(b.Tops, obs, BucketTop)
	shorts := rank(b.Shorts, obs, BucketShorts)
	bottoms := rank(b.Bottoms, obs, BucketBottom)
	outers := rank(b.Outers, obs, BucketOuter)

	var s Suggestion
	if len(tops) > 0 {
		s.Shirt = withThickness(tops[0].Item)
	}
	switch {
	case len(shorts) > 0 && len(bottoms) > 0:
		if shorts[0].Score > bottoms[0].Score {
			s.Pant = withThickness(shorts[0].Item)
		} else {
			s.Pant = withThickness(bottoms[0].Item)
		}
	case len(shorts) > 0:
		s.Pant = withThickness(shorts[0].Item)
	case len(bottoms) > 0:
		s.Pant = withThickness(bottoms[0].Item)
	}
	if len(outers) > 0 && outers[0].Score >= outerMinScore {
		s.Outer = withThickness(outers[0].Item)
	}

	return &Recommendation{
		Weather:    obs,
		Suggestion: s,
		Recommendations: Rankings{
			Tops:    head(tops),
			Shorts:  head(shorts),
			Bottoms: head(bottoms),
			Outers:  head(outers),
		},
		Notes: notes(&s, obs),
	}
}

// rank scores items and sorts them by score, then confidence, descending.
//
//nolint:gocritic // obs passed by value, it is small and read-only
func rank(items []models.GarmentRecord, obs models.WeatherObservation, bucket Bucket) []RatedItem {
	rated := make([]RatedItem, len(items))
	for i := range items {
		rated[i] = RatedItem{Item: items[i], Score: Score(&items[i], obs, bucket)}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		if rated[i].Score != rated[j].Score {
			return rated[i].Score > rated[j].Score
		}
		return rated[i].Item.Confidence > rated[j].Item.Confidence
	})
	return rated
}

func head(rated []RatedItem) []RatedItem {
	n := min(len(rated), TopPerBucket)
	out := make([]RatedItem, n)
	for i := 0; i < n; i++ {
		out[i] = RatedItem{Item: *withThickness(rated[i].Item), Score: rated[i].Score}
	}
	return out
}

// withThickness returns a copy reporting the thickness used for scoring.
func withThickness(item models.GarmentRecord) *models.GarmentRecord {
	item.Thickness = item.EffectiveThickness()
	return &item
}

//nolint:gocritic // obs passed by value, it is small and read-only
func notes(s *Suggestion, obs models.WeatherObservation) []string {
	out := []string{}
	if s.Shirt != nil && s.Pant != nil {
		if note := ContrastAdvice(s.Shirt.ColorHex, s.Pant.ColorHex); note != "" {
			out = append(out, note)
		}
	}
	switch {
	case obs.TempC < coldBelowC:
		out = append(out, NoteCold)
	case obs.TempC >= warmFromC:
		out = append(out, NoteWarm)
	}
	if isRain(obs.Condition) {
		out = append(out, NoteRain)
	}
	return out
}

// ContrastAdvice returns NoteLowContrast when two #rrggbb colours differ in
// luma by less than 30, and "" otherwise or when either is unparseable.
func ContrastAdvice(hex1, hex2 string) string {
	l1, ok1 := luma(hex1)
	l2, ok2 := luma(hex2)
	if !ok1 || !ok2 {
		return ""
	}
	if math.Abs(l1-l2) < contrastMinDelta {
		return NoteLowContrast
	}
	return ""
}

func luma(hex string) (float64, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, false
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return 0, false
		}
		rgb[i] = float64(v)
	}
	return 0.299*rgb[0] + 0.587*rgb[1] + 0.114*rgb[2], true
}
