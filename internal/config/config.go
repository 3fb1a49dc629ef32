// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package config

import (
	"net"
	"strconv"
	"time"
)

// Registry kinds accepted by ModelConfig.RegistryKind.
const (
	RegistryMLflow = "mlflow"
	RegistryFile   = "file"
	RegistryNone   = "none"
)

// Precedence values accepted by ModelConfig.Precedence.
const (
	PrecedenceRegistryFirst = "registry_first"
	PrecedenceLocalFirst    = "local_first"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Model    ModelConfig    `koanf:"model"`
	Weather  WeatherConfig  `koanf:"weather"`
	Wardrobe WardrobeConfig `koanf:"wardrobe"`
	Outfits  OutfitsConfig  `koanf:"outfits"`
	Events   EventsConfig   `koanf:"events"`
	Backup   BackupConfig   `koanf:"backup"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ModelConfig controls how the compatibility model is provisioned.
type ModelConfig struct {
	// RegistryKind selects the registry client: mlflow, file or none.
	RegistryKind string `koanf:"registry_kind"`

	// RegistryURL is the MLflow tracking URI or the file registry directory.
	RegistryURL string `koanf:"registry_url"`

	// Name and Stage select the registered model version.
	Name  string `koanf:"name"`
	Stage string `koanf:"stage"`

	// RegistryTimeout bounds each registry call.
	RegistryTimeout time.Duration `koanf:"registry_timeout"`

	// Precedence is registry_first or local_first.
	Precedence string `koanf:"precedence"`

	// CandidatePaths are probed in order during the local search.
	CandidatePaths []string `koanf:"candidate_paths"`

	// ReconcileThreshold is the missing-key fraction above which a key
	// reconciliation pass runs.
	ReconcileThreshold float64 `koanf:"reconcile_threshold"`

	// Device is auto or cpu. auto uses every available CPU for pair scoring.
	Device string `koanf:"device"`

	// WarmOnStart loads the model when the server starts instead of on first use.
	WarmOnStart bool `koanf:"warm_on_start"`

	// Seed initialises parameters missing from a partial checkpoint.
	Seed int64 `koanf:"seed"`

	// Variant forces the parameter layout (flat or wrapped). auto detects
	// it from the checkpoint keys.
	Variant string `koanf:"variant"`

	// ArtifactFile is the checkpoint file name inside a registry version.
	ArtifactFile string `koanf:"artifact_file"`
}

// WeatherConfig controls the OpenWeatherMap source and the fallback observation.
type WeatherConfig struct {
	APIKey           string        `koanf:"api_key"`
	BaseURL          string        `koanf:"base_url"`
	Timeout          time.Duration `koanf:"timeout"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
	CacheSize        int           `koanf:"cache_size"`
	RatePerSecond    float64       `koanf:"rate_per_second"`
	DefaultCity      string        `koanf:"default_city"`
	DefaultTempC     float64       `koanf:"default_temp_c"`
	DefaultCondition string        `koanf:"default_condition"`
}

// WardrobeConfig controls garment record storage.
type WardrobeConfig struct {
	// Path is the badger directory. Empty runs in memory.
	Path      string `koanf:"path"`
	UploadDir string `koanf:"upload_dir"`
	ListLimit int    `koanf:"list_limit"`
	MaxUpload int64  `koanf:"max_upload"`
}

// OutfitsConfig controls the compatibility endpoint.
type OutfitsConfig struct {
	MaxPerSide int `koanf:"max_per_side"`
	TopK       int `koanf:"top_k"`
}

// EventsConfig controls the in-process model lifecycle pub/sub.
type EventsConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// BackupConfig controls wardrobe archives. An empty Dir disables backups.
type BackupConfig struct {
	Dir string `koanf:"dir"`

	// Interval between scheduled backups. Zero means manual only.
	Interval time.Duration `koanf:"interval"`

	// Retain is the number of newest archives always kept.
	Retain int `koanf:"retain"`

	// KeepRecent additionally keeps every archive younger than this.
	KeepRecent time.Duration `koanf:"keep_recent"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
