// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package services

import (
	"context"
	"io"
)

// CloserService holds a resource open for the life of the tree and closes it
// on shutdown. The server uses it for the event bus.
type CloserService struct {
	name   string
	closer io.Closer
}

// NewCloserService wraps closer under name.
func NewCloserService(name string, closer io.Closer) *CloserService {
	return &CloserService{name: name, closer: closer}
}

// Serve implements suture.Service.
func (c *CloserService) Serve(ctx context.Context) error {
	<-ctx.Done()
	if err := c.closer.Close(); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *CloserService) String() string { return c.name }
