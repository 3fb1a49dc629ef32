// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package weather

import (
	"slices"
	"testing"

	"github.com/tomtom215/outfitter/internal/models"
)

func TestRecommend_HotDayPrefersLightTop(t *testing.T) {
	items := []models.GarmentRecord{
		garment("Sweater", models.ThicknessHeavyweight, 0.9),
		garment("Tshirt", models.ThicknessUltraLight, 0.9),
	}
	rec := Recommend(items, obsAt(28, "Clear"))

	tops := rec.Recommendations.Tops
	if len(tops) != 2 || tops[0].Item.ClassName != "Tshirt" {
		t.Fatalf("tops = %+v", tops)
	}
	if tops[0].Score != 8.3 || tops[1].Score != 5.8 {
		t.Errorf("scores = %v, %v; want 8.3, 5.8", tops[0].Score, tops[1].Score)
	}
	if rec.Suggestion.Shirt == nil || rec.Suggestion.Shirt.ClassName != "Tshirt" {
		t.Errorf("shirt = %+v", rec.Suggestion.Shirt)
	}
	if !slices.Contains(rec.Notes, NoteWarm) {
		t.Errorf("notes = %v", rec.Notes)
	}
}

func TestRecommend_SnowNeverPicksShorts(t *testing.T) {
	items := []models.GarmentRecord{
		garment("Shorts", models.ThicknessUltraLight, 1.0),
		garment("Leggings", models.ThicknessUltraLight, 0.1),
	}
	rec := Recommend(items, obsAt(2, "Snow"))

	if s := rec.Recommendations.Shorts[0].Score; s < 0 {
		t.Errorf("shorts score %v below zero", s)
	}
	if rec.Suggestion.Pant == nil || rec.Suggestion.Pant.ClassName != "Leggings" {
		t.Errorf("pant = %+v", rec.Suggestion.Pant)
	}
	if !slices.Contains(rec.Notes, NoteCold) {
		t.Errorf("notes = %v", rec.Notes)
	}
}

func TestRecommend_ShortsNeedStrictlyHigherScore(t *testing.T) {
	// At 22°C: shorts 5+2, jeans 5+0; equal confidences give 7.0 vs 5.0+2.0.
	items := []models.GarmentRecord{
		garment("Shorts", models.ThicknessUltraLight, 0),
		garment("Jeans", models.ThicknessMidweight, 1.0),
	}
	rec := Recommend(items, obsAt(22, "Clear"))
	if rec.Recommendations.Shorts[0].Score != rec.Recommendations.Bottoms[0].Score {
		t.Fatalf("test setup: scores differ")
	}
	if rec.Suggestion.Pant.ClassName != "Jeans" {
		t.Errorf("tie should keep long bottom, got %s", rec.Suggestion.Pant.ClassName)
	}

	rec = Recommend(items[:1], obsAt(22, "Clear"))
	if rec.Suggestion.Pant == nil || rec.Suggestion.Pant.ClassName != "Shorts" {
		t.Errorf("only shorts available, pant = %+v", rec.Suggestion.Pant)
	}
}

func TestRecommend_OuterGate(t *testing.T) {
	// Lone heavy jacket on a warm day scores 5-2+0.4 = 3.4.
	items := []models.GarmentRecord{garment("Jacket", models.ThicknessHeavyweight, 0.2)}
	rec := Recommend(items, obsAt(24, "Clear"))
	if rec.Suggestion.Outer != nil {
		t.Errorf("outer suggested with score %v", rec.Recommendations.Outers[0].Score)
	}
	if len(rec.Recommendations.Outers) != 1 {
		t.Errorf("outer should still be ranked")
	}

	rec = Recommend(items, obsAt(3, "Clear"))
	if rec.Suggestion.Outer == nil {
		t.Error("heavy jacket should be suggested in the cold")
	}
}

func TestRecommend_RankingTieBreakAndLimit(t *testing.T) {
	var items []models.GarmentRecord
	for i := 0; i < 4; i++ {
		items = append(items, garment("Shirt", models.ThicknessLightweight, 0.5))
	}
	items = append(items, models.GarmentRecord{ID: "odd", ClassName: "Shirt", Thickness: models.ThicknessLightweight, Confidence: 0.501})

	rec := Recommend(items, obsAt(22, "Clear"))
	tops := rec.Recommendations.Tops
	if len(tops) != TopPerBucket {
		t.Fatalf("len(tops) = %d, want %d", len(tops), TopPerBucket)
	}
	// 0.501 confidence rounds to the same score but wins the tie-break.
	if tops[0].Item.ID != "odd" {
		t.Errorf("first = %s, want odd", tops[0].Item.ID)
	}
}

func TestRecommend_Notes(t *testing.T) {
	shirt := garment("Shirt", models.ThicknessLightweight, 0.9)
	shirt.ColorHex = "#202020"
	pant := garment("Jeans", models.ThicknessMidweight, 0.9)
	pant.ColorHex = "#252525"

	rec := Recommend([]models.GarmentRecord{shirt, pant}, obsAt(15, "drizzle"))
	want := []string{NoteLowContrast, NoteRain}
	if !slices.Equal(rec.Notes, want) {
		t.Errorf("notes = %v, want %v", rec.Notes, want)
	}

	pant.ColorHex = "#f0f0f0"
	rec = Recommend([]models.GarmentRecord{shirt, pant}, obsAt(15, "Clear"))
	if len(rec.Notes) != 0 || rec.Notes == nil {
		t.Errorf("notes = %#v, want empty slice", rec.Notes)
	}
}

func TestRecommend_EmptyWardrobe(t *testing.T) {
	rec := Recommend(nil, models.DefaultObservation(20, "Clear"))
	if rec.Suggestion.Shirt != nil || rec.Suggestion.Pant != nil || rec.Suggestion.Outer != nil {
		t.Errorf("suggestion = %+v", rec.Suggestion)
	}
	if rec.Recommendations.Tops == nil || len(rec.Recommendations.Tops) != 0 {
		t.Errorf("tops = %#v", rec.Recommendations.Tops)
	}
}

func TestRecommend_ReportsEffectiveThickness(t *testing.T) {
	rec := Recommend([]models.GarmentRecord{garment("Jeans", "", 0.5)}, obsAt(12, "Clear"))
	if got := rec.Recommendations.Bottoms[0].Item.Thickness; got != models.ThicknessMidweight {
		t.Errorf("thickness = %q", got)
	}
}

func TestContrastAdvice(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"#000000", "#101010", NoteLowContrast},
		{"#000000", "#ffffff", ""},
		{"ffffff", "#F0F0F0", NoteLowContrast},
		{"#zzzzzz", "#000000", ""},
		{"", "#000000", ""},
	}
	for _, tt := range tests {
		if got := ContrastAdvice(tt.a, tt.b); got != tt.want {
			t.Errorf("ContrastAdvice(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
