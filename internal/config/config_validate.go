// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/outfitter/internal/logging"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateWeather(); err != nil {
		return err
	}
	if err := c.validateOutfits(); err != nil {
		return err
	}
	if err := c.validateBackup(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func (c *Config) validateModel() error {
	m := &c.Model
	switch m.RegistryKind {
	case RegistryMLflow:
		u, err := url.Parse(m.RegistryURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("MLFLOW_TRACKING_URI must be an http(s) URL for the mlflow registry, got %q", m.RegistryURL)
		}
	case RegistryFile:
		if strings.TrimSpace(m.RegistryURL) == "" {
			return fmt.Errorf("MLFLOW_TRACKING_URI must name a directory for the file registry")
		}
	case RegistryNone:
	default:
		return fmt.Errorf("MODEL_REGISTRY must be mlflow, file or none, got %q", m.RegistryKind)
	}
	if m.RegistryKind != RegistryNone && (m.Name == "" || m.Stage == "") {
		return fmt.Errorf("MLFLOW_MODEL_NAME and MLFLOW_MODEL_STAGE are required when a registry is configured")
	}
	if m.Precedence != PrecedenceRegistryFirst && m.Precedence != PrecedenceLocalFirst {
		return fmt.Errorf("MODEL_PRECEDENCE must be registry_first or local_first, got %q", m.Precedence)
	}
	if m.ReconcileThreshold < 0 || m.ReconcileThreshold > 1 {
		return fmt.Errorf("MODEL_RECONCILE_THRESHOLD must be between 0 and 1, got %v", m.ReconcileThreshold)
	}
	if m.Device != "auto" && m.Device != "cpu" {
		return fmt.Errorf("MODEL_DEVICE must be auto or cpu, got %q", m.Device)
	}
	switch m.Variant {
	case "auto", "flat", "wrapped":
	default:
		return fmt.Errorf("MODEL_VARIANT must be auto, flat or wrapped, got %q", m.Variant)
	}
	if m.RegistryKind == RegistryMLflow && m.ArtifactFile == "" {
		return fmt.Errorf("MODEL_ARTIFACT_FILE is required for the mlflow registry")
	}
	if len(m.CandidatePaths) == 0 && m.RegistryKind == RegistryNone {
		return fmt.Errorf("MODEL_CANDIDATE_PATHS must not be empty when no registry is configured")
	}
	return nil
}

func (c *Config) validateWeather() error {
	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("WEATHER_TIMEOUT must be positive, got %v", c.Weather.Timeout)
	}
	if c.Weather.CacheSize < 0 {
		return fmt.Errorf("WEATHER_CACHE_SIZE must not be negative, got %d", c.Weather.CacheSize)
	}
	if c.Weather.RatePerSecond <= 0 {
		return fmt.Errorf("WEATHER_RATE_PER_SECOND must be positive, got %v", c.Weather.RatePerSecond)
	}
	if strings.TrimSpace(c.Weather.DefaultCondition) == "" {
		return fmt.Errorf("WEATHER_DEFAULT_CONDITION must not be empty")
	}
	return nil
}

func (c *Config) validateOutfits() error {
	if c.Outfits.MaxPerSide < 1 {
		return fmt.Errorf("OUTFITS_MAX_PER_SIDE must be at least 1, got %d", c.Outfits.MaxPerSide)
	}
	if c.Outfits.TopK < 1 {
		return fmt.Errorf("OUTFITS_TOP_K must be at least 1, got %d", c.Outfits.TopK)
	}
	return nil
}

func (c *Config) validateBackup() error {
	if strings.TrimSpace(c.Backup.Dir) == "" {
		return nil
	}
	if c.Backup.Retain < 1 {
		return fmt.Errorf("BACKUP_RETAIN must be at least 1, got %d", c.Backup.Retain)
	}
	if c.Backup.Interval < 0 || c.Backup.KeepRecent < 0 {
		return fmt.Errorf("BACKUP_INTERVAL and BACKUP_KEEP_RECENT must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}
