// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package registry

import (
	"context"

	"github.com/tomtom215/outfitter/internal/breaker"
)

// BreakerClient guards a Client with a circuit breaker. A stage with no
// versions counts as success.
type BreakerClient struct {
	client Client
	cb     *breaker.Breaker
}

// NewBreakerClient wraps client.
func NewBreakerClient(client Client, cb *breaker.Breaker) *BreakerClient {
	return &BreakerClient{client: client, cb: cb}
}

// LatestVersion implements Client.
func (b *BreakerClient) LatestVersion(ctx context.Context, name, stage string) (*VersionRef, error) {
	return breaker.Cast[VersionRef](b.cb.Execute(func() (interface{}, error) {
		ref, err := b.client.LatestVersion(ctx, name, stage)
		if ref == nil {
			return nil, err
		}
		return ref, err
	}))
}

// FetchModel implements Client.
func (b *BreakerClient) FetchModel(ctx context.Context, ref VersionRef) (*RawModel, error) {
	return breaker.Cast[RawModel](b.cb.Execute(func() (interface{}, error) {
		raw, err := b.client.FetchModel(ctx, ref)
		if raw == nil {
			return nil, err
		}
		return raw, err
	}))
}
