// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/outfitter/internal/checkpoint"
	"github.com/tomtom215/outfitter/internal/registry"
)

func registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage a file-backed model registry",
	}

	var dir, name, stage string
	publish := &cobra.Command{
		Use:   "publish <checkpoint>",
		Short: "Store a checkpoint as the next version and move a stage to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := checkpoint.Decode(data); err != nil {
				return fmt.Errorf("refusing to publish %s: %w", args[0], err)
			}

			reg, err := registry.NewFileRegistry(dir)
			if err != nil {
				return err
			}
			version, err := reg.Publish(cmd.Context(), name, data)
			if err != nil {
				return err
			}
			if stage != "" {
				if err := reg.Transition(cmd.Context(), name, version, stage); err != nil {
					return err
				}
			}

			ref := registry.VersionRef{Name: name, Version: strconv.Itoa(version), Stage: stage}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", ref.URI())
			return nil
		},
	}
	publish.Flags().StringVar(&dir, "dir", "", "Registry directory")
	publish.Flags().StringVar(&name, "name", "compatibility-model", "Registered model name")
	publish.Flags().StringVar(&stage, "stage", "Production", "Stage to move to the new version (empty to skip)")
	_ = publish.MarkFlagRequired("dir")

	cmd.AddCommand(publish)
	return cmd
}
