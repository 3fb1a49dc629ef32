// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/outfitter/internal/checkpoint"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Work with model checkpoint files",
	}

	var asJSON bool
	inspect := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print key count, layout variant and checksum status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			summary, err := checkpoint.Inspect(data)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}

			w := cmd.OutOrStdout()
			m := summary.Metadata
			fmt.Fprintf(w, "name:      %s\n", m.Name)
			fmt.Fprintf(w, "version:   %d\n", m.Version)
			fmt.Fprintf(w, "saved:     %s\n", m.SavedAt.Format("2006-01-02 15:04:05Z07:00"))
			fmt.Fprintf(w, "section:   %s\n", sectionName(summary.Section))
			fmt.Fprintf(w, "keys:      %d\n", summary.KeyCount)
			fmt.Fprintf(w, "variant:   %s\n", summary.Variant)
			fmt.Fprintf(w, "checksum:  %s\n", checksumStatus(summary.ChecksumValid))
			if len(summary.SampleKeys) > 0 {
				fmt.Fprintf(w, "sample:    %s\n", strings.Join(summary.SampleKeys, ", "))
			}
			return nil
		},
	}
	inspect.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	cmd.AddCommand(inspect)
	return cmd
}

func sectionName(s checkpoint.Section) string {
	if s == checkpoint.SectionNone {
		return "(empty)"
	}
	return string(s)
}

func checksumStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "MISMATCH"
}
