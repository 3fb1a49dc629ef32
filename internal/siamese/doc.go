// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

// Package siamese implements the pairwise garment compatibility network.
//
// The network embeds two preprocessed images with a shared backbone, L2
// normalises the embeddings, concatenates them and maps the pair to a score
// in [0,1] through a small sigmoid head.
//
// Parameter keys follow the layout written by the training pipeline:
//
//	backbone.<stage>.weight            flat backbone
//	backbone.0.<stage>.weight          wrapped backbone
//	embedding.2.* / embedding.5.*      embedding projections
//	compatibility_head.{0,3,6}.*       scoring head
//
// Checkpoints come in either backbone variant. ClassifyVariant picks the
// variant from the saved key names and Reconcile maps wrapped keys onto a
// flat layout when the two disagree.
package siamese
