// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package backup

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// keepSet returns the file names policy keeps. backups must be newest first.
func keepSet(backups []Backup, policy RetentionPolicy, now time.Time) map[string]bool {
	keep := make(map[string]bool, len(backups))
	for i := 0; i < policy.MinCount && i < len(backups); i++ {
		keep[backups[i].FileName] = true
	}
	if policy.KeepRecent > 0 {
		cutoff := now.Add(-policy.KeepRecent)
		for _, b := range backups {
			if b.CreatedAt.After(cutoff) {
				keep[b.FileName] = true
			}
		}
	}
	return keep
}

// applyRetention deletes archives outside the policy and returns how many
// were removed. Caller holds m.mu.
func (m *Manager) applyRetention() (int, error) {
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	keep := keepSet(backups, m.cfg.Retention, m.now())

	removed := 0
	var errs []error
	for _, b := range backups {
		if keep[b.FileName] {
			continue
		}
		path := filepath.Join(m.cfg.Dir, b.FileName)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(path + checksumExt); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
		removed++
		m.logger.Debug().Str("file", b.FileName).Msg("Pruned backup")
	}
	return removed, errors.Join(errs...)
}
