// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/outfitter/internal/api"
	"github.com/tomtom215/outfitter/internal/backup"
	"github.com/tomtom215/outfitter/internal/checkpoint"
	"github.com/tomtom215/outfitter/internal/compat"
	"github.com/tomtom215/outfitter/internal/config"
	"github.com/tomtom215/outfitter/internal/events"
	"github.com/tomtom215/outfitter/internal/logging"
	"github.com/tomtom215/outfitter/internal/provision"
	"github.com/tomtom215/outfitter/internal/supervisor"
	"github.com/tomtom215/outfitter/internal/supervisor/services"
	"github.com/tomtom215/outfitter/internal/wardrobe"
	"github.com/tomtom215/outfitter/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()

	logging.Info().
		Str("registry", cfg.Model.RegistryKind).
		Str("model", cfg.Model.Name).
		Str("stage", cfg.Model.Stage).
		Str("precedence", cfg.Model.Precedence).
		Msg("Starting Outfitter")

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logger := logging.Logger()

	// Wardrobe storage
	db, err := wardrobe.OpenDB(cfg.Wardrobe.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing wardrobe store")
		}
	}()
	images, err := wardrobe.NewImageStore(cfg.Wardrobe.UploadDir)
	if err != nil {
		return err
	}
	repo := wardrobe.NewBadgerRepository(db)
	logging.Info().
		Str("path", displayPath(cfg.Wardrobe.Path)).
		Str("uploads", images.Dir()).
		Msg("Wardrobe store opened")

	// Model provisioning
	reg, err := newRegistry(&cfg.Model, logger)
	if err != nil {
		return err
	}
	bus, audit := newEventBus(&cfg.Events, logger)
	var pub events.Publisher
	if bus != nil {
		pub = bus
	}
	prov, err := provision.New(provision.OptionsFromConfig(&cfg.Model), reg, checkpoint.FileStore{}, pub, logger)
	if err != nil {
		return err
	}
	engine := compat.NewEngine(prov, logger)

	// Weather
	source := weather.NewOpenWeatherSource(weather.OpenWeatherConfig{
		APIKey:        cfg.Weather.APIKey,
		BaseURL:       cfg.Weather.BaseURL,
		Timeout:       cfg.Weather.Timeout,
		CacheTTL:      cfg.Weather.CacheTTL,
		CacheSize:     cfg.Weather.CacheSize,
		RatePerSecond: cfg.Weather.RatePerSecond,
	}, logger)
	if cfg.Weather.APIKey == "" {
		logging.Warn().Msg("OPENWEATHER_API_KEY not set, recommendations use the default observation")
	}

	backups, err := newBackupManager(&cfg.Backup, db, repo, images, logger)
	if err != nil {
		return err
	}

	// HTTP
	deps := api.Deps{
		Wardrobe: repo,
		Images:   images,
		Ingester: wardrobe.NewIngester(repo, images, logger),
		Scorer:   engine,
		Models:   prov,
		Weather:  source,
	}
	if audit != nil {
		deps.Events = audit
	}
	if backups != nil {
		deps.Backups = backups
	}
	handler := api.NewHandler(cfg, deps, logger)
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, mw, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Supervisor tree
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if bus != nil {
		tree.AddDataService(services.NewCloserService("event-bus", bus))
		tree.AddDataService(audit)
	}
	if backups != nil && cfg.Backup.Interval > 0 {
		tree.AddDataService(backup.NewScheduler(backups, cfg.Backup.Interval))
		logging.Info().Dur("interval", cfg.Backup.Interval).Str("dir", backups.Dir()).Msg("Scheduled backups enabled")
	}
	if cfg.Model.WarmOnStart {
		tree.AddModelService(services.NewWarmupService(prov, 0, logger))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// errCh delivers exactly one value and is never closed.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

func displayPath(p string) string {
	if p == "" {
		return "(memory)"
	}
	return p
}
