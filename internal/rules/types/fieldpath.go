// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package types

import "strings"

// FieldPath is a non-empty ordered sequence of identifier segments. It is
// compared and resolved by segment, never by the original dotted string.
type FieldPath []string

// String renders the path using its conventional dotted surface form. This
// is for diagnostics only; resolution never re-parses it.
func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// HasPrefix reports whether the first segment of p equals seg.
func (p FieldPath) HasPrefix(seg string) bool {
	return len(p) > 0 && p[0] == seg
}

// Equal reports whether two paths have identical segments.
func (p FieldPath) Equal(other FieldPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
