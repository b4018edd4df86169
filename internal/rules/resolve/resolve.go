// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package resolve implements field-path resolution against an evaluation
// context (with delta overlay) and the cross-type coercion rules used to
// compare resolved values.
package resolve

import (
	"math"
	"strconv"

	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

// Resolve navigates path against the effective context: node_data overlaid
// with delta (the sparse tree of writes performed by earlier rules in the
// same evaluation), or derived_data when the first segment is "derived".
// It returns the resolved Value and true, or the zero Value and false when
// resolution yields Missing. Resolution never returns an error: every
// failure mode collapses to Missing, per the field resolver's fail-safe
// design.
func Resolve(ctx *types.EvaluationContext, delta map[string]any, path types.FieldPath) (types.Value, bool) {
	if len(path) == 0 {
		return types.Value{}, false
	}

	if path[0] == "derived" {
		if ctx.DerivedData == nil {
			return types.Value{}, false
		}
		raw, ok := lookup(ctx.DerivedData, nil, path[1:])
		if !ok {
			return types.Value{}, false
		}
		return toValue(raw)
	}

	raw, ok := lookup(ctx.NodeData, delta, path)
	if !ok {
		return types.Value{}, false
	}
	return toValue(raw)
}

// lookup walks node and delta in lockstep, one path segment at a time.
// At each step the delta branch wins wherever it has an answer; node
// supplies any sibling data the delta never touched. This realizes the
// "overlay" as a path-structured patch rather than a materialized copy:
// only SET's actual leaf assignments diverge from node, by design.
func lookup(node, delta map[string]any, path []string) (any, bool) {
	nCur, dCur := node, delta
	for i, seg := range path {
		last := i == len(path)-1

		dVal, dOK := child(dCur, seg)
		nVal, nOK := child(nCur, seg)

		if last {
			if dOK {
				return dVal, true
			}
			if nOK {
				return nVal, true
			}
			return nil, false
		}

		dCur = descend(dVal, dOK)
		nCur = descend(nVal, nOK)
		if dCur == nil && nCur == nil {
			return nil, false
		}
	}
	return nil, false
}

func child(m map[string]any, seg string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[seg]
	return v, ok
}

// descend returns the nested map to continue traversal into, or nil if the
// branch doesn't exist or the value at this step isn't itself an object
// (traversing through a non-object yields Missing for that branch, not an
// error).
func descend(v any, ok bool) map[string]any {
	if !ok {
		return nil
	}
	m, isMap := v.(map[string]any)
	if !isMap {
		return nil
	}
	return m
}

// toValue maps a raw JSON-like leaf to the Value universe. Object and
// array leaves are not addressable values in this version and map to
// Missing.
func toValue(raw any) (types.Value, bool) {
	switch v := raw.(type) {
	case string:
		return types.StringValue(v), true
	case float64:
		return types.NumberValue(v), true
	case float32:
		return types.NumberValue(float64(v)), true
	case int:
		return types.NumberValue(float64(v)), true
	case int64:
		return types.NumberValue(float64(v)), true
	case bool:
		return types.BoolValue(v), true
	case nil:
		return types.NullValue(), true
	default:
		return types.Value{}, false
	}
}

// --- Cross-type coercion and comparison (§4.3) ---

// Compare applies op to the resolved left value L (already known present)
// against the right literal from the AST, following the documented
// coercion table. Coercion failures collapse to false rather than error.
func Compare(left types.Value, op types.CmpOp, right types.Value) bool {
	switch op {
	case types.OpContains:
		return compareContains(left, right)
	case types.OpMatches:
		return compareMatches(left, right)
	default:
		return compareOrdered(left, op, right)
	}
}

// compareOrdered handles ==, !=, <, <=, >, >= by picking the coercion rule
// keyed on the left operand's kind, per the documented table.
func compareOrdered(left types.Value, op types.CmpOp, right types.Value) bool {
	switch left.Kind() {
	case types.KindString:
		rs, ok := coerceToString(right)
		if !ok {
			return false
		}
		return compareStrings(mustString(left), rs, op)

	case types.KindNumber:
		rn, ok := coerceToNumber(right)
		if !ok {
			return false
		}
		return compareNumbers(mustNumber(left), rn, op)

	case types.KindBool:
		rb, ok := coerceToBool(right)
		if !ok {
			return false
		}
		return compareBools(mustBool(left), rb, op)

	case types.KindRegex:
		// Regex values are only ever compared via MATCHES on the right
		// operand; a regex never appears as the left operand of an
		// ordered comparison.
		return false

	case types.KindNull:
		// Null behaves as its coerced counterpart, normalized through the
		// same tables by treating it as the empty string / 0.0 / false
		// depending on what it's compared against.
		switch right.Kind() {
		case types.KindString:
			return compareStrings("", mustString(right), op)
		case types.KindNumber:
			return compareNumbers(0, mustNumber(right), op)
		case types.KindBool:
			return compareBools(false, mustBool(right), op)
		case types.KindNull:
			return compareBools(false, false, op)
		default:
			return false
		}

	default:
		return false
	}
}

func compareStrings(l, r string, op types.CmpOp) bool {
	switch op {
	case types.OpEq:
		return l == r
	case types.OpNe:
		return l != r
	case types.OpLt:
		return l < r
	case types.OpLe:
		return l <= r
	case types.OpGt:
		return l > r
	case types.OpGe:
		return l >= r
	default:
		return false
	}
}

func compareNumbers(l, r float64, op types.CmpOp) bool {
	if math.IsNaN(l) || math.IsNaN(r) {
		return false
	}
	switch op {
	case types.OpEq:
		return l == r
	case types.OpNe:
		return l != r
	case types.OpLt:
		return l < r
	case types.OpLe:
		return l <= r
	case types.OpGt:
		return l > r
	case types.OpGe:
		return l >= r
	default:
		return false
	}
}

func compareBools(l, r bool, op types.CmpOp) bool {
	switch op {
	case types.OpEq:
		return l == r
	case types.OpNe:
		return l != r
	default:
		// Ordering is undefined for bools; every other operator is false.
		return false
	}
}

// coerceToString renders v as a string per the documented table.
func coerceToString(v types.Value) (string, bool) {
	switch v.Kind() {
	case types.KindString:
		return mustString(v), true
	case types.KindNumber:
		return formatNumber(mustNumber(v)), true
	case types.KindBool:
		if mustBool(v) {
			return "true", true
		}
		return "false", true
	case types.KindNull:
		return "", true
	default:
		return "", false
	}
}

// coerceToNumber parses v as a number per the documented table. A String
// that does not parse as a finite number yields (0, false), i.e. the
// comparison is false, matching the spec's total-coercion design.
func coerceToNumber(v types.Value) (float64, bool) {
	switch v.Kind() {
	case types.KindNumber:
		return mustNumber(v), true
	case types.KindString:
		return parseNumber(mustString(v))
	case types.KindBool:
		if mustBool(v) {
			return 1.0, true
		}
		return 0.0, true
	case types.KindNull:
		return 0.0, true
	default:
		return 0, false
	}
}

// coerceToBool coerces v to a bool per the documented table.
func coerceToBool(v types.Value) (bool, bool) {
	switch v.Kind() {
	case types.KindBool:
		return mustBool(v), true
	case types.KindString:
		switch mustString(v) {
		case "true":
			return true, true
		case "false":
			return false, true
		default:
			return false, true // "otherwise false" per the table
		}
	case types.KindNumber:
		n := mustNumber(v)
		if math.IsNaN(n) {
			return false, true
		}
		return n != 0, true
	case types.KindNull:
		return false, true
	default:
		return false, false
	}
}

// formatNumber renders a float64 using the canonical numeric-to-string
// rule: integers render without a decimal point, and no trailing zeros
// are added beyond the fractional digits actually stored.
func formatNumber(n float64) string {
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// parseNumber parses s as a finite float64. Exponent notation is
// intentionally rejected: the implementer's conservative default chosen
// for string-to-number coercion (spec open question, §9).
func parseNumber(s string) (float64, bool) {
	for _, r := range s {
		if r == 'e' || r == 'E' {
			return 0, false
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

func compareContains(left, right types.Value) bool {
	haystack, ok := coerceToString(left)
	if !ok {
		return false
	}
	needle, ok := coerceToString(right)
	if !ok {
		return false
	}
	return containsSubstring(haystack, needle)
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func compareMatches(left, right types.Value) bool {
	re, ok := right.AsRegex()
	if !ok || re == nil {
		return false
	}
	s, ok := coerceToString(left)
	if !ok {
		return false
	}
	return re.MatchString(s)
}

func mustString(v types.Value) string {
	s, _ := v.AsString()
	return s
}

func mustNumber(v types.Value) float64 {
	n, _ := v.AsNumber()
	return n
}

func mustBool(v types.Value) bool {
	b, _ := v.AsBool()
	return b
}
