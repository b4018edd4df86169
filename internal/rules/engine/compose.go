// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package engine

// Compose deep-merges delta over nodeData, with delta taking precedence at
// every leaf, and returns a new map. Neither input is mutated: this is the
// optional convenience helper callers can use to materialize a
// PolicyResult's Delta against the original record, outside the evaluator
// itself (which never needs a materialized copy).
func Compose(delta, nodeData map[string]any) map[string]any {
	return mergeMaps(nodeData, delta)
}

// mergeMaps returns a new map holding base's entries overlaid with
// overlay's, recursing into nested maps on both sides and preferring
// overlay's value at any leaf where the two diverge.
func mergeMaps(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = cloneValue(v)
	}
	for k, ov := range overlay {
		bv, exists := out[k]
		if !exists {
			out[k] = cloneValue(ov)
			continue
		}
		bm, bIsMap := bv.(map[string]any)
		om, oIsMap := ov.(map[string]any)
		if bIsMap && oIsMap {
			out[k] = mergeMaps(bm, om)
			continue
		}
		out[k] = cloneValue(ov)
	}
	return out
}

func cloneValue(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	return mergeMaps(m, nil)
}
