// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Model provisioning

	ModelLoadAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitter_model_load_attempts_total",
			Help: "Model load attempts by source and outcome",
		},
		[]string{"source", "outcome"}, // source: registry, local; outcome: success, miss, failure
	)

	ModelLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outfitter_model_load_duration_seconds",
			Help:    "Time spent provisioning the compatibility model",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	ModelKeys = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outfitter_model_parameter_keys",
			Help: "Parameter keys of the active model by status",
		},
		[]string{"status"}, // expected, loaded, missing, unexpected
	)

	ModelReconciliations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfitter_model_reconciliations_total",
			Help: "Key reconciliation passes run while loading checkpoints",
		},
	)

	ModelReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitter_model_reloads_total",
			Help: "Explicit registry reloads by result",
		},
		[]string{"result"},
	)

	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "outfitter_model_loaded",
			Help: "1 when a compatibility model handle is available",
		},
	)

	// Compatibility scoring

	PairsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfitter_pairs_scored_total",
			Help: "Top/bottom pairs scored by the compatibility model",
		},
	)

	ScoreBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outfitter_score_batch_duration_seconds",
			Help:    "Duration of a compatibility score batch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	PreprocessErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfitter_image_preprocess_errors_total",
			Help: "Images that could not be decoded for scoring",
		},
	)

	// Weather

	WeatherFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitter_weather_fetches_total",
			Help: "Weather lookups by result",
		},
		[]string{"result"}, // hit, miss, error, disabled
	)

	WeatherRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitter_weather_recommendations_total",
			Help: "Weather suggestions built, by whether the observation was live",
		},
		[]string{"observation"}, // live, default
	)

	// Circuit breakers

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests passed through a circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitter_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outfitter_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Wardrobe

	WardrobeItemsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outfitter_wardrobe_items_ingested_total",
			Help: "Garment records created",
		},
	)

	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outfitter_backups_total",
			Help: "Wardrobe backups by result",
		},
		[]string{"result"}, // success, failure
	)

	BackupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outfitter_backup_duration_seconds",
			Help:    "Time spent writing a wardrobe backup",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordModelLoad records one provisioning attempt.
func RecordModelLoad(source, outcome string, duration time.Duration) {
	ModelLoadAttempts.WithLabelValues(source, outcome).Inc()
	if outcome == "success" {
		ModelLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	}
}

// RecordModelKeys publishes the key coverage of the active model.
func RecordModelKeys(expected, loaded, missing, unexpected int) {
	ModelKeys.WithLabelValues("expected").Set(float64(expected))
	ModelKeys.WithLabelValues("loaded").Set(float64(loaded))
	ModelKeys.WithLabelValues("missing").Set(float64(missing))
	ModelKeys.WithLabelValues("unexpected").Set(float64(unexpected))
	ModelLoaded.Set(1)
}

// RecordModelReload records the result of an explicit reload.
func RecordModelReload(ok bool) {
	ModelReloads.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

// RecordScoreBatch records a scored T x B batch.
func RecordScoreBatch(pairs int, duration time.Duration) {
	PairsScored.Add(float64(pairs))
	ScoreBatchDuration.Observe(duration.Seconds())
}

// RecordWeatherFetch records one weather lookup.
func RecordWeatherFetch(result string) {
	WeatherFetches.WithLabelValues(result).Inc()
}

// RecordAPIRequest records a served HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBackup records one backup attempt.
func RecordBackup(ok bool, duration time.Duration) {
	if !ok {
		BackupsTotal.WithLabelValues("failure").Inc()
		return
	}
	BackupsTotal.WithLabelValues("success").Inc()
	BackupDuration.Observe(duration.Seconds())
}
