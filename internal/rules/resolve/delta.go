// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package resolve

// WriteDelta writes value at path into delta, creating intermediate
// objects as needed and overwriting any existing leaf at the same path
// (last-writer-wins). delta must be non-nil.
func WriteDelta(delta map[string]any, path []string, value any) {
	cur := delta
	for i, seg := range path {
		if i == len(path)-1 {
			cur[seg] = value
			return
		}
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
}
