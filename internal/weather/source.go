// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/outfitter/internal/breaker"
	"github.com/tomtom215/outfitter/internal/cache"
	"github.com/tomtom215/outfitter/internal/metrics"
	"github.com/tomtom215/outfitter/internal/models"
)

// Source returns current conditions for a city, or nil when they are
// unavailable for any reason.
type Source interface {
	Fetch(ctx context.Context, city string) *models.WeatherObservation
}

// Resolve fetches an observation for city and falls back to def. The
// boolean reports whether the observation is live.
//
//nolint:gocritic // def passed by value, it is small and read-only
func Resolve(ctx context.Context, src Source, city string, def models.WeatherObservation) (models.WeatherObservation, bool) {
	if src != nil && city != "" {
		if obs := src.Fetch(ctx, city); obs != nil {
			metrics.WeatherRecommendations.WithLabelValues("live").Inc()
			return *obs, true
		}
	}
	metrics.WeatherRecommendations.WithLabelValues("default").Inc()
	return def, false
}

// OpenWeatherConfig configures OpenWeatherSource.
type OpenWeatherConfig struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	CacheTTL      time.Duration
	CacheSize     int
	RatePerSecond float64
}

// OpenWeatherSource reads the OpenWeatherMap current weather endpoint.
// Lookups are cached per city, rate limited and guarded by a circuit breaker.
type OpenWeatherSource struct {
	cfg        OpenWeatherConfig
	httpClient *http.Client
	cache      *cache.LRU[models.WeatherObservation]
	limiter    *rate.Limiter
	cb         *breaker.Breaker
	logger     zerolog.Logger
}

// NewOpenWeatherSource creates a source. An empty API key disables lookups.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOpenWeatherSource(cfg OpenWeatherConfig, logger zerolog.Logger) *OpenWeatherSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 6 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &OpenWeatherSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache.NewLRU[models.WeatherObservation](cfg.CacheSize, cfg.CacheTTL),
		limiter:    rate.NewLimiter(limit, 1),
		cb:         breaker.New("openweather", breaker.Settings{IsSuccessful: isCallerError}),
		logger:     logger.With().Str("component", "weather").Logger(),
	}
}

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Fetch implements Source.
func (s *OpenWeatherSource) Fetch(ctx context.Context, city string) *models.WeatherObservation {
	city = strings.TrimSpace(city)
	if s.cfg.APIKey == "" || city == "" {
		metrics.RecordWeatherFetch("disabled")
		return nil
	}

	key := strings.ToLower(city)
	if obs, ok := s.cache.Get(key); ok {
		metrics.RecordWeatherFetch("hit")
		return &obs
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.RecordWeatherFetch("error")
		s.logger.Debug().Err(err).Str("city", city).Msg("Weather lookup not attempted")
		return nil
	}

	obs, err := breaker.Cast[models.WeatherObservation](s.cb.Execute(func() (interface{}, error) {
		return s.fetch(ctx, city)
	}))
	if err != nil || obs == nil {
		metrics.RecordWeatherFetch("error")
		s.logger.Warn().Err(err).Str("city", city).Msg("Weather lookup failed, using default observation")
		return nil
	}

	metrics.RecordWeatherFetch("miss")
	s.cache.Add(key, *obs)
	return obs
}

func (s *OpenWeatherSource) fetch(ctx context.Context, city string) (*models.WeatherObservation, error) {
	q := url.Values{"q": {city}, "appid": {s.cfg.APIKey}, "units": {"metric"}}
	endpoint := strings.TrimRight(s.cfg.BaseURL, "/") + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body close errors are not actionable

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{Code: resp.StatusCode}
	}

	var r owmResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.Main.Temp == nil || len(r.Weather) == 0 {
		return nil, fmt.Errorf("incomplete response for %q", city)
	}

	name := r.Name
	if name == "" {
		name = city
	}
	return &models.WeatherObservation{
		TempC:       *r.Main.Temp,
		Condition:   r.Weather[0].Main,
		Description: r.Weather[0].Description,
		FeelsLikeC:  r.Main.FeelsLike,
		Humidity:    r.Main.Humidity,
		City:        name,
	}, nil
}

// statusError is a non-200 reply from the provider.
type statusError struct {
	Code int
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

// isCallerError reports 4xx replies other than 429. An unknown city or a
// bad key says nothing about provider health, so they do not trip the breaker.
func isCallerError(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
}
