// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package models

// WeatherObservation is a current-conditions reading for one city.
// Condition is free-form and compared case-insensitively.
type WeatherObservation struct {
	TempC       float64  `json:"temp_c"`
	Condition   string   `json:"main"`
	Description string   `json:"desc,omitempty"`
	FeelsLikeC  *float64 `json:"feels_like,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	City        string   `json:"city,omitempty"`
}

// DefaultObservation is used whenever no live reading is available.
func DefaultObservation(tempC float64, condition string) WeatherObservation {
	return WeatherObservation{TempC: tempC, Condition: condition}
}
