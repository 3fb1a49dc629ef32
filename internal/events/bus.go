// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// Publisher is the side of the bus the provisioner depends on.
type Publisher interface {
	PublishModelEvent(ctx context.Context, event *ModelEvent) error
}

// Bus is an in-process pub/sub for model events.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus whose subscriber channels buffer bufferSize messages.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(bufferSize int64, logger zerolog.Logger) *Bus {
	logger = logger.With().Str("component", "events").Logger()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: bufferSize,
		}, NewLoggerAdapter(logger)),
		logger: logger,
	}
}

// PublishModelEvent validates, encodes and publishes event on its topic.
func (b *Bus) PublishModelEvent(_ context.Context, event *ModelEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid model event: %w", err)
	}
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("encode model event: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("model", event.Model)
	if event.Version != "" {
		msg.Metadata.Set("version", event.Version)
	}
	return b.pubsub.Publish(event.Topic, msg)
}

// Subscribe returns the message stream for topic. Messages must be acked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}

// Publish sends event through pub, logging instead of failing. A nil
// publisher is allowed.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Publish(ctx context.Context, pub Publisher, event *ModelEvent, logger zerolog.Logger) {
	if pub == nil {
		return
	}
	if err := pub.PublishModelEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("topic", event.Topic).Msg("Failed to publish model event")
	}
}
