// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package backup

import (
	"context"
	"time"
)

// Scheduler runs Create on a fixed interval under a supervisor.
type Scheduler struct {
	manager  *Manager
	interval time.Duration
}

// NewScheduler creates a scheduler. interval must be positive.
func NewScheduler(m *Manager, interval time.Duration) *Scheduler {
	return &Scheduler{manager: m, interval: interval}
}

// Serve implements suture.Service. A failed backup is logged by the manager
// and retried on the next tick.
func (s *Scheduler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_, _ = s.manager.Create(ctx) //nolint:errcheck // logged by Create
		}
	}
}

func (s *Scheduler) String() string { return "wardrobe-backup" }
