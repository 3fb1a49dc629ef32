// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

/*
Package events carries model lifecycle notifications over an in-process
Watermill pub/sub.

The provisioner publishes one event per load attempt outcome:

	model.loaded           a model became the active handle
	model.load_failed      obtain exhausted every source
	model.reload_rejected  a registry reload failed and the old handle stayed

AuditSubscriber consumes all three topics, logs them and keeps the most
recent ones for the model status endpoint. Publishing never blocks model
loading: a nil or closed bus drops events.
*/
package events
