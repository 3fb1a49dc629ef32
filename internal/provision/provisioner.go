// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package provision

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/outfitter/internal/checkpoint"
	"github.com/tomtom215/outfitter/internal/config"
	"github.com/tomtom215/outfitter/internal/events"
	"github.com/tomtom215/outfitter/internal/metrics"
	"github.com/tomtom215/outfitter/internal/registry"
)

// Provisioner loads the compatibility model and owns the active Handle.
type Provisioner struct {
	opts      Options
	registry  registry.Client
	store     checkpoint.Store
	publisher events.Publisher
	logger    zerolog.Logger

	// loadMu serialises loads; mu guards the fields below.
	loadMu sync.Mutex

	mu          sync.RWMutex
	current     *Handle
	state       State
	lastErr     error
	lastAttempt time.Time
}

// New creates a provisioner. reg and pub may be nil: without a registry
// only local candidates are searched, without a publisher no events are sent.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(opts Options, reg registry.Client, store checkpoint.Store, pub events.Publisher, logger zerolog.Logger) (*Provisioner, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid provisioning options: %w", err)
	}
	if store == nil {
		store = checkpoint.FileStore{}
	}
	return &Provisioner{
		opts:      opts,
		registry:  reg,
		store:     store,
		publisher: pub,
		logger:    logger.With().Str("component", "provision").Logger(),
		state:     StateUnloaded,
	}, nil
}

// Options returns the provisioning options.
func (p *Provisioner) Options() Options { return p.opts }

// HasRegistry reports whether a registry client is configured.
func (p *Provisioner) HasRegistry() bool { return p.registry != nil }

// Current returns the active handle without loading, or nil.
func (p *Provisioner) Current() *Handle {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Obtain returns the active handle, loading one first when none exists or
// force is set. A failed forced load keeps the previous handle active and
// returns the error.
func (p *Provisioner) Obtain(ctx context.Context, force bool) (*Handle, error) {
	if !force {
		if h := p.Current(); h != nil {
			return h, nil
		}
	}

	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	// Another caller may have finished a load while we waited.
	if !force {
		if h := p.Current(); h != nil {
			return h, nil
		}
	}

	h, err := p.load(ctx)
	if err != nil {
		p.fail(err)
		ev := events.NewModelEvent(events.TopicModelLoadFailed, p.opts.ModelName)
		ev.Stage = p.opts.Stage
		ev.Error = err.Error()
		events.Publish(ctx, p.publisher, ev, p.logger)
		return nil, err
	}

	p.swap(h)
	p.announce(ctx, h)
	return h, nil
}

// ReloadFromRegistry loads the current registry version and swaps it in.
// Local files are never consulted. On failure the previous handle stays
// active and false is returned.
func (p *Provisioner) ReloadFromRegistry(ctx context.Context) bool {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	h, err := p.loadFromRegistry(ctx)
	metrics.RecordModelReload(err == nil)
	if err != nil {
		p.logger.Warn().Err(err).Str("model", p.opts.ModelName).Str("stage", p.opts.Stage).
			Bool("kept_previous", p.Current() != nil).Msg("Registry reload rejected")
		p.fail(err)
		ev := events.NewModelEvent(events.TopicModelReloadRejected, p.opts.ModelName)
		ev.Stage = p.opts.Stage
		ev.Error = err.Error()
		events.Publish(ctx, p.publisher, ev, p.logger)
		return false
	}

	p.swap(h)
	p.announce(ctx, h)
	return true
}

// Status reports the current state.
func (p *Provisioner) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	st := Status{State: p.state}
	if h := p.current; h != nil {
		prov, dev, at, res := h.Provenance, h.Device, h.LoadedAt, h.Result
		st.Provenance, st.Device, st.LoadedAt, st.Result = &prov, &dev, &at, &res
	}
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	if !p.lastAttempt.IsZero() {
		at := p.lastAttempt
		st.LastAttempt = &at
	}
	return st
}

func (p *Provisioner) load(ctx context.Context) (*Handle, error) {
	if p.opts.Precedence == config.PrecedenceLocalFirst {
		h, localErr := p.loadFromLocal(ctx)
		if localErr == nil || p.registry == nil {
			return h, localErr
		}
		p.logger.Warn().Err(localErr).Msg("Local model unavailable, trying registry")
		h, regErr := p.loadFromRegistry(ctx)
		if regErr == nil {
			return h, nil
		}
		var nf *ModelNotFoundError
		if errors.As(localErr, &nf) {
			nf.RegistryErr = regErr
		}
		return nil, localErr
	}

	if p.registry != nil {
		h, err := p.loadFromRegistry(ctx)
		if err == nil {
			return h, nil
		}
		p.logger.Warn().Err(err).Str("model", p.opts.ModelName).Str("stage", p.opts.Stage).
			Msg("Registry load failed, falling back to local checkpoints")
	}
	return p.loadFromLocal(ctx)
}

func (p *Provisioner) loadFromRegistry(ctx context.Context) (*Handle, error) {
	if p.registry == nil {
		return nil, ErrNoRegistry
	}
	p.searching(StateRegistryLookup)
	start := time.Now()

	ref, err := p.registry.LatestVersion(ctx, p.opts.ModelName, p.opts.Stage)
	if err != nil {
		metrics.RecordModelLoad(string(SourceRegistry), "failure", time.Since(start))
		return nil, fmt.Errorf("registry lookup: %w", err)
	}
	if ref == nil {
		metrics.RecordModelLoad(string(SourceRegistry), "miss", time.Since(start))
		return nil, fmt.Errorf("%w: %s in stage %s", ErrNoRegistryVersion, p.opts.ModelName, p.opts.Stage)
	}

	raw, err := p.registry.FetchModel(ctx, *ref)
	if err != nil {
		metrics.RecordModelLoad(string(SourceRegistry), "failure", time.Since(start))
		return nil, fmt.Errorf("fetch %s: %w", ref.URI(), err)
	}

	h, err := p.newHandle(raw.Data, Provenance{Source: SourceRegistry, URI: ref.URI(), Version: ref.Version})
	if err != nil {
		metrics.RecordModelLoad(string(SourceRegistry), "failure", time.Since(start))
		return nil, fmt.Errorf("load %s: %w", ref.URI(), err)
	}
	metrics.RecordModelLoad(string(SourceRegistry), "success", time.Since(start))
	return h, nil
}

func (p *Provisioner) loadFromLocal(ctx context.Context) (*Handle, error) {
	p.searching(StateLocalSearch)
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, path, probed := checkpoint.Probe(p.store, p.opts.CandidatePaths)
	if found == "" {
		metrics.RecordModelLoad(string(SourceLocal), "miss", time.Since(start))
		return nil, &ModelNotFoundError{Probed: probed}
	}

	data, err := p.store.ReadBytes(found)
	if err != nil {
		metrics.RecordModelLoad(string(SourceLocal), "failure", time.Since(start))
		return nil, err
	}

	h, err := p.newHandle(data, Provenance{Source: SourceLocal, Path: path})
	if err != nil {
		metrics.RecordModelLoad(string(SourceLocal), "failure", time.Since(start))
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	metrics.RecordModelLoad(string(SourceLocal), "success", time.Since(start))
	return h, nil
}

func (p *Provisioner) newHandle(data []byte, prov Provenance) (*Handle, error) {
	net, result, err := p.buildNetwork(data)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		Model:      net,
		Provenance: prov,
		Device:     selectDevice(p.opts.Device),
		LoadedAt:   time.Now().UTC(),
		Result:     result,
	}

	entry := p.logger.Info()
	if !result.Complete() {
		entry = p.logger.Warn()
	}
	entry.Str("source", string(prov.Source)).
		Str("provenance", prov.String()).
		Str("variant", result.Variant).
		Str("device", h.Device.Name).
		Int("loaded_keys", result.LoadedKeys).
		Int("missing_keys", result.MissingKeys).
		Bool("reconciled", result.Reconciled).
		Strs("warnings", result.Warnings).
		Msg("Compatibility model loaded")
	return h, nil
}

func (p *Provisioner) swap(h *Handle) {
	p.mu.Lock()
	p.current = h
	p.state = StateLoaded
	p.lastErr = nil
	p.lastAttempt = time.Now().UTC()
	p.mu.Unlock()

	r := h.Result
	metrics.RecordModelKeys(r.ExpectedKeys, r.LoadedKeys, r.MissingKeys, r.UnexpectedKeys)
}

// fail records err. A previously loaded handle keeps the state LOADED.
func (p *Provisioner) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	p.lastAttempt = time.Now().UTC()
	if p.current != nil {
		p.state = StateLoaded
	} else {
		p.state = StateFailed
	}
}

// searching enters a lookup state. While a handle is serving the state
// stays LOADED so status never pairs a lookup state with live provenance.
func (p *Provisioner) searching(s State) {
	p.mu.Lock()
	if p.current == nil {
		p.state = s
	}
	p.mu.Unlock()
}

func (p *Provisioner) announce(ctx context.Context, h *Handle) {
	ev := events.NewModelEvent(events.TopicModelLoaded, p.opts.ModelName)
	ev.Stage = p.opts.Stage
	ev.Source = string(h.Provenance.Source)
	ev.URI = h.Provenance.String()
	ev.Version = h.Provenance.Version
	ev.Variant = h.Result.Variant
	ev.LoadedKeys = h.Result.LoadedKeys
	ev.MissingKeys = h.Result.MissingKeys
	ev.Reconciled = h.Result.Reconciled
	events.Publish(ctx, p.publisher, ev, p.logger)
}
