// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics.
const (
	TopicModelLoaded         = "model.loaded"
	TopicModelLoadFailed     = "model.load_failed"
	TopicModelReloadRejected = "model.reload_rejected"
)

// AllTopics lists every topic the bus carries.
var AllTopics = []string{TopicModelLoaded, TopicModelLoadFailed, TopicModelReloadRejected}

// ModelEvent describes one provisioning outcome.
type ModelEvent struct {
	EventID   string    `json:"event_id"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`

	Model   string `json:"model"`
	Stage   string `json:"stage,omitempty"`
	Source  string `json:"source,omitempty"`
	URI     string `json:"uri,omitempty"`
	Version string `json:"version,omitempty"`
	Variant string `json:"variant,omitempty"`

	LoadedKeys  int  `json:"loaded_keys,omitempty"`
	MissingKeys int  `json:"missing_keys,omitempty"`
	Reconciled  bool `json:"reconciled,omitempty"`

	Error string `json:"error,omitempty"`
}

// NewModelEvent stamps a new event for topic.
func NewModelEvent(topic, model string) *ModelEvent {
	return &ModelEvent{
		EventID:   uuid.NewString(),
		Topic:     topic,
		Timestamp: time.Now().UTC(),
		Model:     model,
	}
}

// Validate checks the fields every event must carry.
func (e *ModelEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	switch e.Topic {
	case TopicModelLoaded, TopicModelLoadFailed, TopicModelReloadRejected:
	default:
		return fmt.Errorf("unknown topic %q", e.Topic)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	return nil
}

// Marshal encodes the event payload.
func (e *ModelEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalModelEvent decodes a payload produced by Marshal.
func UnmarshalModelEvent(data []byte) (*ModelEvent, error) {
	var e ModelEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode model event: %w", err)
	}
	return &e, nil
}
