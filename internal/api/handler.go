// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/outfitter/internal/backup"
	"github.com/tomtom215/outfitter/internal/compat"
	"github.com/tomtom215/outfitter/internal/config"
	"github.com/tomtom215/outfitter/internal/events"
	"github.com/tomtom215/outfitter/internal/models"
	"github.com/tomtom215/outfitter/internal/provision"
	"github.com/tomtom215/outfitter/internal/wardrobe"
	"github.com/tomtom215/outfitter/internal/weather"
)

// ModelService is the provisioning surface used by the handlers.
// *provision.Provisioner implements it.
type ModelService interface {
	Current() *provision.Handle
	ReloadFromRegistry(ctx context.Context) bool
	Status() provision.Status
}

// OutfitScorer ranks top/bottom pairs. *compat.Engine implements it.
type OutfitScorer interface {
	BestOutfits(ctx context.Context, topImages, bottomImages [][]byte,
		topMeta, bottomMeta []models.GarmentRecord, k int) ([]compat.OutfitCandidate, error)
}

// EventLog exposes recent model lifecycle events. *events.AuditSubscriber
// implements it.
type EventLog interface {
	Recent() []events.ModelEvent
}

// BackupService creates and lists wardrobe archives. *backup.Manager
// implements it.
type BackupService interface {
	Create(ctx context.Context) (*backup.Backup, error)
	List() ([]backup.Backup, error)
}

// Deps are the collaborators of Handler. Weather, Events and Backups may be nil.
type Deps struct {
	Wardrobe wardrobe.Repository
	Images   *wardrobe.ImageStore
	Ingester *wardrobe.Ingester
	Scorer   OutfitScorer
	Models   ModelService
	Weather  weather.Source
	Events   EventLog
	Backups  BackupService
}

// Handler implements the HTTP endpoints.
type Handler struct {
	config    *config.Config
	wardrobe  wardrobe.Repository
	images    *wardrobe.ImageStore
	ingester  *wardrobe.Ingester
	scorer    OutfitScorer
	models    ModelService
	weather   weather.Source
	events    EventLog
	backups   BackupService
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates a handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(cfg *config.Config, deps Deps, logger zerolog.Logger) *Handler {
	return &Handler{
		config:    cfg,
		wardrobe:  deps.Wardrobe,
		images:    deps.Images,
		ingester:  deps.Ingester,
		scorer:    deps.Scorer,
		models:    deps.Models,
		weather:   deps.Weather,
		events:    deps.Events,
		backups:   deps.Backups,
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}
