// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package siamese

import "strings"

// Reconcile maps saved keys onto target keys. Keys already present in target
// map to themselves. A missing backbone key has one numeric segment after
// "backbone." stripped and maps to the result when target has it. Everything
// else maps to itself and will surface as unexpected when applied.
func Reconcile(saved, target []string) map[string]string {
	want := make(map[string]struct{}, len(target))
	for _, k := range target {
		want[k] = struct{}{}
	}

	mapping := make(map[string]string, len(saved))
	for _, k := range saved {
		mapping[k] = k
		if _, ok := want[k]; ok {
			continue
		}
		if stripped, ok := stripBackboneIndex(k); ok {
			if _, hit := want[stripped]; hit {
				mapping[k] = stripped
			}
		}
	}
	return mapping
}

// stripBackboneIndex turns backbone.<n>.<rest> into backbone.<rest>.
func stripBackboneIndex(key string) (string, bool) {
	if !strings.HasPrefix(key, backbonePrefix) {
		return "", false
	}
	rest := key[len(backbonePrefix):]
	idx, tail, ok := strings.Cut(rest, ".")
	if !ok || !isIndex(idx) || tail == "" {
		return "", false
	}
	return backbonePrefix + tail, true
}

// Remap applies a Reconcile mapping to sd. When two saved keys map to the
// same target the one that already matched wins.
func Remap(sd StateDict, mapping map[string]string) StateDict {
	out := make(StateDict, len(sd))
	for _, k := range sd.Keys() {
		dst, ok := mapping[k]
		if !ok {
			dst = k
		}
		if _, taken := out[dst]; taken && dst != k {
			continue
		}
		out[dst] = sd[k]
	}
	return out
}
