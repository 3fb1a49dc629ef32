// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/outfitter/config.yaml",
	"/etc/outfitter/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultCheckpointName is the file name the trainer writes.
const DefaultCheckpointName = "compat_mobilenetv2.ckpt"

// Default returns the built-in defaults without reading files or the
// environment.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Model: ModelConfig{
			RegistryKind:    RegistryMLflow,
			RegistryURL:     "http://127.0.0.1:5000",
			Name:            "wardrobe-compatibility",
			Stage:           "Production",
			RegistryTimeout: 30 * time.Second,
			Precedence:      PrecedenceRegistryFirst,
			CandidatePaths: []string{
				"models/" + DefaultCheckpointName,
				"artifacts/compatibility/" + DefaultCheckpointName,
				"mlruns/artifacts/" + DefaultCheckpointName,
				"app/models/" + DefaultCheckpointName,
				DefaultCheckpointName,
			},
			ReconcileThreshold: 0.3,
			Device:             "auto",
			WarmOnStart:        false,
			Seed:               42,
			Variant:            "auto",
			ArtifactFile:       DefaultCheckpointName,
		},
		Weather: WeatherConfig{
			BaseURL:          "https://api.openweathermap.org",
			Timeout:          6 * time.Second,
			CacheTTL:         10 * time.Minute,
			CacheSize:        256,
			RatePerSecond:    1,
			DefaultCity:      "Lahore",
			DefaultTempC:     20,
			DefaultCondition: "Clear",
		},
		Wardrobe: WardrobeConfig{
			Path:      "/data/wardrobe",
			UploadDir: "/data/uploads",
			ListLimit: 1000,
			MaxUpload: 10 << 20,
		},
		Outfits: OutfitsConfig{
			MaxPerSide: 5,
			TopK:       10,
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 64,
		},
		Backup: BackupConfig{
			Interval: 24 * time.Hour,
			Retain:   7,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Load builds the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"model.candidate_paths",
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Model provisioning
	"model_registry":            "model.registry_kind",
	"mlflow_tracking_uri":       "model.registry_url",
	"mlflow_model_name":         "model.name",
	"mlflow_model_stage":        "model.stage",
	"model_registry_timeout":    "model.registry_timeout",
	"model_precedence":          "model.precedence",
	"model_candidate_paths":     "model.candidate_paths",
	"model_reconcile_threshold": "model.reconcile_threshold",
	"model_device":              "model.device",
	"model_warm_on_start":       "model.warm_on_start",
	"model_seed":                "model.seed",
	"model_variant":             "model.variant",
	"model_artifact_file":       "model.artifact_file",

	// Weather
	"openweather_api_key":       "weather.api_key",
	"openweather_base_url":      "weather.base_url",
	"weather_timeout":           "weather.timeout",
	"weather_cache_ttl":         "weather.cache_ttl",
	"weather_cache_size":        "weather.cache_size",
	"weather_rate_per_second":   "weather.rate_per_second",
	"weather_default_city":      "weather.default_city",
	"weather_default_temp_c":    "weather.default_temp_c",
	"weather_default_condition": "weather.default_condition",

	// Wardrobe
	"wardrobe_path":       "wardrobe.path",
	"upload_dir":          "wardrobe.upload_dir",
	"wardrobe_list_limit": "wardrobe.list_limit",
	"max_upload_bytes":    "wardrobe.max_upload",

	// Outfits
	"outfits_max_per_side": "outfits.max_per_side",
	"outfits_top_k":        "outfits.top_k",

	// Events
	"events_enabled":     "events.enabled",
	"events_buffer_size": "events.buffer_size",

	// Backup
	"backup_dir":         "backup.dir",
	"backup_interval":    "backup.interval",
	"backup_retain":      "backup.retain",
	"backup_keep_recent": "backup.keep_recent",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to its config key.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
