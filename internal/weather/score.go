// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package weather

import (
	"math"
	"strings"

	"github.com/tomtom215/outfitter/internal/models"
)

const (
	baseScore     = 5.0
	maxScore      = 10.0
	outerMinScore = 5.0
)

// Score rates item for obs as a member of bucket, in [0,10].
//
//nolint:gocritic // obs passed by value, it is small and read-only
func Score(item *models.GarmentRecord, obs models.WeatherObservation, bucket Bucket) float64 {
	t := obs.TempC
	thick := item.EffectiveThickness()
	class := strings.ToLower(item.ClassName)

	score := baseScore
	switch bucket {
	case BucketShorts:
		score += shortsDelta(t)
	case BucketBottom:
		score += bottomDelta(t)
	case BucketOuter:
		score += outerDelta(t, thick)
	case BucketTop:
		score += topDelta(t, thick)
	}

	switch {
	case isRain(obs.Condition):
		if strings.Contains(class, "rain") || strings.Contains(class, "waterproof") {
			score += 2.0
		} else if bucket == BucketOuter && thick == models.ThicknessHeavyweight {
			score += 1.0
		}
	case isSnow(obs.Condition):
		if thick == models.ThicknessHeavyweight {
			score += 2.0
		} else if bucket == BucketShorts {
			score -= 3.0
		}
	}

	score += item.Confidence * 2.0

	score = math.Max(0, math.Min(maxScore, score))
	return math.Round(score*100) / 100
}

func shortsDelta(t float64) float64 {
	switch {
	case t >= 25:
		return 3.0
	case t >= 20:
		return 2.0
	case t >= 15:
		return 0.5
	case t >= 10:
		return -1.0
	default:
		return -3.0
	}
}

func bottomDelta(t float64) float64 {
	switch {
	case t < 10:
		return 2.5
	case t < 15:
		return 2.0
	case t < 20:
		return 1.0
	case t >= 25:
		return -1.0
	default:
		return 0
	}
}

func outerDelta(t float64, thick models.Thickness) float64 {
	switch {
	case t < 5:
		switch thick {
		case models.ThicknessHeavyweight:
			return 3.0
		case models.ThicknessMidweight:
			return 1.0
		default:
			return -1.0
		}
	case t < 10:
		if thick == models.ThicknessHeavyweight || thick == models.ThicknessMidweight {
			return 2.5
		}
		return 0.5
	case t < 15:
		switch thick {
		case models.ThicknessMidweight, models.ThicknessLightweight:
			return 2.0
		case models.ThicknessHeavyweight:
			return 0.5
		default:
			return 0
		}
	case t < 20:
		if thick == models.ThicknessLightweight || thick == models.ThicknessUltraLight {
			return 1.5
		}
		return -0.5
	default:
		return -2.0
	}
}

func topDelta(t float64, thick models.Thickness) float64 {
	switch {
	case t < 10:
		if thick == models.ThicknessHeavyweight || thick == models.ThicknessMidweight {
			return 1.5
		}
		return -0.5
	case t < 20:
		if thick == models.ThicknessMidweight || thick == models.ThicknessLightweight {
			return 1.0
		}
		return 0
	case t >= 25:
		switch thick {
		case models.ThicknessUltraLight, models.ThicknessLightweight:
			return 1.5
		case models.ThicknessHeavyweight:
			return -1.0
		default:
			return 0
		}
	default:
		return 0
	}
}

func isRain(condition string) bool {
	c := strings.ToLower(strings.TrimSpace(condition))
	return c == "rain" || c == "drizzle"
}

func isSnow(condition string) bool {
	c := strings.ToLower(strings.TrimSpace(condition))
	return c == "snow" || c == "snowy"
}
