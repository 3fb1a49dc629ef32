// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package models

import (
	"strings"
	"time"
)

// Thickness is the warmth category of a garment.
type Thickness string

// Thickness categories. ThicknessUnknown is stored for classes with no mapping
// and matches no temperature band.
const (
	ThicknessUltraLight  Thickness = "Ultra Light"
	ThicknessLightweight Thickness = "Lightweight"
	ThicknessMidweight   Thickness = "Midweight"
	ThicknessHeavyweight Thickness = "Heavyweight"
	ThicknessUnknown     Thickness = "medium"
)

// Valid reports whether t is one of the known categories.
func (t Thickness) Valid() bool {
	switch t {
	case ThicknessUltraLight, ThicknessLightweight, ThicknessMidweight, ThicknessHeavyweight, ThicknessUnknown:
		return true
	}
	return false
}

// thicknessByClass maps lower-cased classifier labels to a thickness.
var thicknessByClass = map[string]Thickness{
	"shirts":        ThicknessLightweight,
	"jeans":         ThicknessMidweight,
	"track pants":   ThicknessLightweight,
	"tshirts":       ThicknessUltraLight,
	"sweatshirts":   ThicknessMidweight,
	"waistcoat":     ThicknessLightweight,
	"shorts":        ThicknessUltraLight,
	"rain jacket":   ThicknessHeavyweight,
	"trousers":      ThicknessLightweight,
	"boxers":        ThicknessUltraLight,
	"trunk":         ThicknessUltraLight,
	"sweaters":      ThicknessHeavyweight,
	"tracksuits":    ThicknessLightweight,
	"swimwear":      ThicknessUltraLight,
	"jackets":       ThicknessHeavyweight,
	"suspenders":    ThicknessUltraLight,
	"tunics":        ThicknessLightweight,
	"leggings":      ThicknessUltraLight,
	"belts":         ThicknessUltraLight,
	"blazers":       ThicknessMidweight,
	"tights":        ThicknessUltraLight,
	"rain trousers": ThicknessHeavyweight,
	"suits":         ThicknessMidweight,
}

// EstimateThickness maps a classifier label to a thickness category.
// Matching ignores case and a trailing plural "s", so "Tshirt", "tshirts"
// and "TSHIRTS" all resolve to Ultra Light.
func EstimateThickness(className string) Thickness {
	key := strings.ToLower(strings.TrimSpace(className))
	if key == "" {
		return ThicknessUnknown
	}
	if t, ok := thicknessByClass[key]; ok {
		return t
	}
	if t, ok := thicknessByClass[key+"s"]; ok {
		return t
	}
	if t, ok := thicknessByClass[strings.TrimSuffix(key, "s")]; ok {
		return t
	}
	return ThicknessUnknown
}

// GarmentRecord is one classified wardrobe item. Records are immutable once
// created.
type GarmentRecord struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	ColorHex   string    `json:"color_hex"`
	Thickness  Thickness `json:"thickness"`
	CreatedAt  time.Time `json:"created_at"`
}

// EffectiveThickness returns the stored thickness, or the estimate for the
// class label when none was stored.
func (g *GarmentRecord) EffectiveThickness() Thickness {
	if g.Thickness != "" && g.Thickness != ThicknessUnknown {
		return g.Thickness
	}
	return EstimateThickness(g.ClassName)
}
