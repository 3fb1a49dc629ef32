// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/weather"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Run scoring engines offline",
	}

	var (
		temp      float64
		condition string
		itemsPath string
	)
	weatherCmd := &cobra.Command{
		Use:   "weather",
		Short: "Suggest an outfit from a JSON list of garment records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(itemsPath)
			if err != nil {
				return err
			}
			var items []models.GarmentRecord
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("parse %s: %w", itemsPath, err)
			}
			rec := weather.Recommend(items, models.DefaultObservation(temp, condition))
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	weatherCmd.Flags().Float64Var(&temp, "temp", 20, "Temperature in Celsius")
	weatherCmd.Flags().StringVar(&condition, "condition", "Clear", "Weather condition, for example Rain or Snow")
	weatherCmd.Flags().StringVar(&itemsPath, "items", "", "JSON file holding an array of garment records")
	_ = weatherCmd.MarkFlagRequired("items")

	cmd.AddCommand(weatherCmd)
	return cmd
}
