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
	"github.com/rs/zerolog"
)

// AuditSubscriber logs every model event and remembers the most recent ones.
// It runs as a supervised service.
type AuditSubscriber struct {
	bus    *Bus
	limit  int
	logger zerolog.Logger

	readyOnce sync.Once
	ready     chan struct{}

	mu     sync.RWMutex
	recent []ModelEvent
}

// NewAuditSubscriber keeps up to limit recent events.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditSubscriber(bus *Bus, limit int, logger zerolog.Logger) *AuditSubscriber {
	if limit <= 0 {
		limit = 20
	}
	return &AuditSubscriber{
		bus:    bus,
		limit:  limit,
		ready:  make(chan struct{}),
		logger: logger.With().Str("component", "model-audit").Logger(),
	}
}

// Serve subscribes to every model topic and blocks until ctx is done.
func (a *AuditSubscriber) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	merged := make(chan *message.Message)
	var wg sync.WaitGroup
	for _, topic := range AllTopics {
		ch, err := a.bus.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		wg.Add(1)
		go func(ch <-chan *message.Message) {
			defer wg.Done()
			for msg := range ch {
				select {
				case merged <- msg:
				case <-ctx.Done():
					msg.Nack()
					return
				}
			}
		}(ch)
	}

	a.readyOnce.Do(func() { close(a.ready) })

	for {
		select {
		case <-ctx.Done():
			cancel()
			wg.Wait()
			return ctx.Err()
		case msg := <-merged:
			a.handle(msg)
		}
	}
}

func (a *AuditSubscriber) handle(msg *message.Message) {
	defer msg.Ack()

	event, err := UnmarshalModelEvent(msg.Payload)
	if err != nil {
		a.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping undecodable model event")
		return
	}

	entry := a.logger.Info()
	if event.Topic != TopicModelLoaded {
		entry = a.logger.Warn()
	}
	entry.Str("topic", event.Topic).
		Str("model", event.Model).
		Str("source", event.Source).
		Str("version", event.Version).
		Str("error", event.Error).
		Msg("Model event")

	a.mu.Lock()
	a.recent = append(a.recent, *event)
	if len(a.recent) > a.limit {
		a.recent = a.recent[len(a.recent)-a.limit:]
	}
	a.mu.Unlock()
}

// Ready is closed once the first Serve call has subscribed to every topic.
func (a *AuditSubscriber) Ready() <-chan struct{} { return a.ready }

// Recent returns the remembered events, newest first.
func (a *AuditSubscriber) Recent() []ModelEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]ModelEvent, len(a.recent))
	for i, e := range a.recent {
		out[len(a.recent)-1-i] = e
	}
	return out
}

// String names the service in supervisor logs.
func (a *AuditSubscriber) String() string { return "model-audit" }
