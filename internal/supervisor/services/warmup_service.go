// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/outfitter/internal/provision"
)

// ModelWarmer loads the compatibility model. *provision.Provisioner
// implements it.
type ModelWarmer interface {
	Obtain(ctx context.Context, force bool) (*provision.Handle, error)
}

// WarmupService loads the model once at startup so the first scoring request
// does not pay for it. A failed warm-up is logged and left to the lazy load
// on first use; the service never restarts.
type WarmupService struct {
	warmer  ModelWarmer
	timeout time.Duration
	logger  zerolog.Logger
	done    chan struct{}
	once    sync.Once
}

// NewWarmupService creates the service. A non-positive timeout means the
// load is bounded only by the supervisor's context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWarmupService(warmer ModelWarmer, timeout time.Duration, logger zerolog.Logger) *WarmupService {
	return &WarmupService{
		warmer:  warmer,
		timeout: timeout,
		logger:  logger.With().Str("service", "model-warmup").Logger(),
		done:    make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (w *WarmupService) Serve(ctx context.Context) error {
	defer w.once.Do(func() { close(w.done) })

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	h, err := w.warmer.Obtain(ctx, false)
	if err != nil {
		w.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).
			Msg("Model warm-up failed, the model will load on first use")
		return suture.ErrDoNotRestart
	}

	w.logger.Info().
		Str("source", string(h.Provenance.Source)).
		Str("provenance", h.Provenance.String()).
		Str("device", h.Device.Name).
		Int("missing_keys", h.Result.MissingKeys).
		Dur("elapsed", time.Since(start)).
		Msg("Model warmed up")
	return suture.ErrDoNotRestart
}

// Done is closed when the warm-up attempt has finished.
func (w *WarmupService) Done() <-chan struct{} { return w.done }

func (w *WarmupService) String() string { return "model-warmup" }
