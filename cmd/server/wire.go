// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package main

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/outfitter/internal/backup"
	"github.com/tomtom215/outfitter/internal/breaker"
	"github.com/tomtom215/outfitter/internal/config"
	"github.com/tomtom215/outfitter/internal/events"
	"github.com/tomtom215/outfitter/internal/registry"
	"github.com/tomtom215/outfitter/internal/wardrobe"
)

// newRegistry builds the configured registry client behind a circuit
// breaker. It returns a nil interface for RegistryNone.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newRegistry(cfg *config.ModelConfig, logger zerolog.Logger) (registry.Client, error) {
	var client registry.Client
	switch cfg.RegistryKind {
	case config.RegistryMLflow:
		client = registry.NewMLflowClient(cfg.RegistryURL, cfg.ArtifactFile, cfg.RegistryTimeout, logger)
	case config.RegistryFile:
		fr, err := registry.NewFileRegistry(cfg.RegistryURL)
		if err != nil {
			return nil, fmt.Errorf("open file registry: %w", err)
		}
		client = fr
	case config.RegistryNone:
		logger.Info().Msg("No model registry configured, using local checkpoints only")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown registry kind %q", cfg.RegistryKind)
	}

	logger.Info().Str("kind", cfg.RegistryKind).Str("url", cfg.RegistryURL).Msg("Model registry configured")
	return registry.NewBreakerClient(client, breaker.New("model-registry", breaker.DefaultSettings())), nil
}

// newEventBus returns nil values when events are disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newEventBus(cfg *config.EventsConfig, logger zerolog.Logger) (*events.Bus, *events.AuditSubscriber) {
	if !cfg.Enabled {
		return nil, nil
	}
	bus := events.NewBus(cfg.BufferSize, logger)
	return bus, events.NewAuditSubscriber(bus, 0, logger)
}

// newBackupManager returns nil when no backup directory is configured.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBackupManager(cfg *config.BackupConfig, db *badger.DB, repo wardrobe.Repository,
	images *wardrobe.ImageStore, logger zerolog.Logger) (*backup.Manager, error) {
	if cfg.Dir == "" {
		return nil, nil
	}
	return backup.NewManager(backup.Config{
		Dir: cfg.Dir,
		Retention: backup.RetentionPolicy{
			MinCount:   cfg.Retain,
			KeepRecent: cfg.KeepRecent,
		},
	}, db, repo, images, logger)
}
