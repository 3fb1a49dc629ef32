// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/outfitter/internal/backup"
	"github.com/tomtom215/outfitter/internal/wardrobe"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Verify and restore wardrobe backups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <archive>",
		Short: "Check an archive against its checksum file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := backup.Verify(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no checksum file, archive not verified")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "checksum ok")
			return nil
		},
	})

	var dbPath, uploadDir string
	restore := &cobra.Command{
		Use:   "restore <archive>",
		Short: "Load an archive into a wardrobe store (server must be stopped)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			db, err := wardrobe.OpenDB(dbPath)
			if err != nil {
				return fmt.Errorf("open wardrobe store: %w", err)
			}
			defer func() { err = errors.Join(err, db.Close()) }()

			images, err := wardrobe.NewImageStore(uploadDir)
			if err != nil {
				return err
			}
			res, err := backup.Restore(cmd.Context(), args[0], db, images)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored backup %s: %d records, %d photos (checksum verified: %t)\n",
				res.Backup.ID, res.Backup.Items, res.Images, res.ChecksumVerified)
			return nil
		},
	}
	restore.Flags().StringVar(&dbPath, "db", "", "Wardrobe badger directory")
	restore.Flags().StringVar(&uploadDir, "uploads", "", "Upload directory for photos")
	_ = restore.MarkFlagRequired("db")
	_ = restore.MarkFlagRequired("uploads")

	cmd.AddCommand(restore)
	return cmd
}
