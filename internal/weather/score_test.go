// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package weather

import (
	"testing"

	"github.com/tomtom215/outfitter/internal/models"
)

func garment(class string, thick models.Thickness, conf float64) models.GarmentRecord {
	return models.GarmentRecord{ID: class, ClassName: class, Thickness: thick, Confidence: conf}
}

func obsAt(t float64, cond string) models.WeatherObservation {
	return models.WeatherObservation{TempC: t, Condition: cond}
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		class string
		want  Bucket
		ok    bool
	}{
		{"Tshirt", BucketTop, true},
		{"T-Shirt", BucketTop, true},
		{"sweater", BucketTop, true},
		{"Shorts", BucketShorts, true},
		{"Capri", BucketShorts, true},
		{"Jeans", BucketBottom, true},
		{"Rain Trousers", BucketBottom, true},
		{"Rain Jacket", BucketOuter, true},
		{"Nehru Jackets", BucketOuter, true},
		{"  Hoodie ", BucketOuter, true},
		{"Tshirts", "", false},
		{"denim jeans", "", false},
		{"Belts", "", false},
	}
	for _, tt := range tests {
		got, ok := BucketOf(tt.class)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BucketOf(%q) = %q, %v; want %q, %v", tt.class, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategorize_ExactMatchOnly(t *testing.T) {
	b := Categorize([]models.GarmentRecord{
		garment("Shirt", "", 0.9),
		garment("Jeans", "", 0.9),
		garment("Shorts", "", 0.9),
		garment("Coat", "", 0.9),
		garment("Shirt dress with belt", "", 0.9),
		garment("Socks", "", 0.9),
	})
	if len(b.Tops) != 1 || len(b.Bottoms) != 1 || len(b.Shorts) != 1 || len(b.Outers) != 1 {
		t.Errorf("buckets = %d tops, %d bottoms, %d shorts, %d outers",
			len(b.Tops), len(b.Bottoms), len(b.Shorts), len(b.Outers))
	}
}

func TestScore_ShortsBands(t *testing.T) {
	item := garment("Shorts", models.ThicknessUltraLight, 0)
	tests := []struct {
		temp float64
		want float64
	}{
		{30, 8.0},
		{25, 8.0},
		{24.9, 7.0},
		{20, 7.0},
		{19, 5.5},
		{15, 5.5},
		{14, 4.0},
		{10, 4.0},
		{9.9, 2.0},
		{-5, 2.0},
	}
	for _, tt := range tests {
		if got := Score(&item, obsAt(tt.temp, "Clear"), BucketShorts); got != tt.want {
			t.Errorf("Score(shorts, %v°C) = %v, want %v", tt.temp, got, tt.want)
		}
	}
}

func TestScore_ShortsMonotonicInTemperature(t *testing.T) {
	item := garment("Shorts", models.ThicknessUltraLight, 0.7)
	prev := -1.0
	for temp := 5.0; temp <= 30; temp += 0.5 {
		got := Score(&item, obsAt(temp, "Clear"), BucketShorts)
		if got < prev {
			t.Fatalf("score dropped from %v to %v at %v°C", prev, got, temp)
		}
		prev = got
	}
}

func TestScore_Bottoms(t *testing.T) {
	item := garment("Jeans", models.ThicknessMidweight, 0)
	for temp, want := range map[float64]float64{5: 7.5, 12: 7.0, 17: 6.0, 22: 5.0, 28: 4.0} {
		if got := Score(&item, obsAt(temp, "Clear"), BucketBottom); got != want {
			t.Errorf("Score(jeans, %v°C) = %v, want %v", temp, got, want)
		}
	}
}

func TestScore_OuterByThickness(t *testing.T) {
	tests := []struct {
		temp  float64
		thick models.Thickness
		want  float64
	}{
		{0, models.ThicknessHeavyweight, 8.0},
		{0, models.ThicknessMidweight, 6.0},
		{0, models.ThicknessLightweight, 4.0},
		{7, models.ThicknessMidweight, 7.5},
		{7, models.ThicknessUltraLight, 5.5},
		{12, models.ThicknessLightweight, 7.0},
		{12, models.ThicknessHeavyweight, 5.5},
		{12, models.ThicknessUltraLight, 5.0},
		{18, models.ThicknessUltraLight, 6.5},
		{18, models.ThicknessHeavyweight, 4.5},
		{22, models.ThicknessLightweight, 3.0},
	}
	for _, tt := range tests {
		item := garment("Jacket", tt.thick, 0)
		if got := Score(&item, obsAt(tt.temp, "Clear"), BucketOuter); got != tt.want {
			t.Errorf("Score(outer %s, %v°C) = %v, want %v", tt.thick, tt.temp, got, tt.want)
		}
	}
}

func TestScore_Tops(t *testing.T) {
	tests := []struct {
		temp  float64
		thick models.Thickness
		want  float64
	}{
		{5, models.ThicknessHeavyweight, 6.5},
		{5, models.ThicknessUltraLight, 4.5},
		{15, models.ThicknessLightweight, 6.0},
		{15, models.ThicknessUltraLight, 5.0},
		{22, models.ThicknessHeavyweight, 5.0},
		{30, models.ThicknessUltraLight, 6.5},
		{30, models.ThicknessHeavyweight, 4.0},
		{30, models.ThicknessMidweight, 5.0},
	}
	for _, tt := range tests {
		item := garment("Shirt", tt.thick, 0)
		if got := Score(&item, obsAt(tt.temp, "Clear"), BucketTop); got != tt.want {
			t.Errorf("Score(top %s, %v°C) = %v, want %v", tt.thick, tt.temp, got, tt.want)
		}
	}
}

func TestScore_Conditions(t *testing.T) {
	rainJacket := garment("Rain Jacket", models.ThicknessHeavyweight, 0)
	coat := garment("Coat", models.ThicknessHeavyweight, 0)
	shorts := garment("Shorts", models.ThicknessUltraLight, 0)

	// 22°C outer base is 3.0.
	if got := Score(&rainJacket, obsAt(22, "RAIN"), BucketOuter); got != 5.0 {
		t.Errorf("rain jacket in rain = %v, want 5.0", got)
	}
	if got := Score(&coat, obsAt(22, "Drizzle"), BucketOuter); got != 4.0 {
		t.Errorf("heavy coat in drizzle = %v, want 4.0", got)
	}
	if got := Score(&coat, obsAt(22, "Snow"), BucketOuter); got != 5.0 {
		t.Errorf("heavy coat in snow = %v, want 5.0", got)
	}
	if got := Score(&shorts, obsAt(22, "snowy"), BucketShorts); got != 4.0 {
		t.Errorf("shorts in snow = %v, want 4.0", got)
	}
}

func TestScore_ConfidenceAndClamp(t *testing.T) {
	item := garment("Shorts", models.ThicknessUltraLight, 0.875)
	if got := Score(&item, obsAt(30, "Clear"), BucketShorts); got != 9.75 {
		t.Errorf("Score = %v, want 9.75", got)
	}

	hot := garment("Rain Trousers", models.ThicknessHeavyweight, 1)
	if got := Score(&hot, obsAt(0, "Snow"), BucketBottom); got != 10 {
		t.Errorf("Score = %v, want clamp at 10", got)
	}

	cold := garment("Shorts", models.ThicknessUltraLight, 0)
	if got := Score(&cold, obsAt(-10, "Snow"), BucketShorts); got != 0 {
		t.Errorf("Score = %v, want clamp at 0", got)
	}
}

func TestScore_ThicknessFromClassWhenUnknown(t *testing.T) {
	stored := garment("Sweaters", models.ThicknessUnknown, 0)
	if got := Score(&stored, obsAt(30, "Clear"), BucketTop); got != 4.0 {
		t.Errorf("Score = %v, want heavyweight penalty (4.0)", got)
	}
}
