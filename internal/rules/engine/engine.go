// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package engine implements the rule evaluator (C4): it walks an ordered
// list of RuleFiles against an EvaluationContext and produces a
// PolicyResult, applying SET writes through an intra-evaluation overlay so
// later rules observe earlier classifications.
package engine

import (
	"time"

	"github.com/bedecarroll/unet-sub001/internal/rules/resolve"
	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

// MaxNestingDepth bounds recursive descent into And/Or/Not expressions.
// Exceeding it forces the offending subexpression to evaluate false rather
// than recursing without bound; well-formed rule text never comes close.
const MaxNestingDepth = 64

// evalState carries the per-evaluation mutable pieces threaded through
// condition and action evaluation: the delta overlay and a depth guard.
// Nothing here is shared across calls to Evaluate.
type evalState struct {
	ctx           *types.EvaluationContext
	delta         map[string]any
	depthExceeded bool
}

// Evaluate walks ruleFiles in order, each file's rules in order, against
// ctx, and returns the resulting PolicyResult for objectID. Evaluate never
// mutates ctx.NodeData or ctx.DerivedData; it returns no error because
// every dynamic condition the evaluator can encounter maps to a defined
// outcome (see the resolve package).
func Evaluate(ruleFiles []*types.RuleFile, ctx *types.EvaluationContext, objectID string) *types.PolicyResult {
	start := time.Now()

	st := &evalState{ctx: ctx, delta: map[string]any{}}
	violations := make([]types.Violation, 0)
	templates := make([]string, 0)
	appliedSet := make(map[string]struct{})

	for _, rf := range ruleFiles {
		for idx, rule := range rf.Rules {
			st.depthExceeded = false
			if !evalExpr(st, rule.Condition, 0) {
				continue
			}

			switch {
			case rule.Action.Assert != nil:
				violations = applyAssert(st, rf.OriginID, idx, rule.Action.Assert, violations)
			case rule.Action.Set != nil:
				applySet(st, rule.Action.Set)
			case rule.Action.Apply != nil:
				templates = applyApply(rule.Action.Apply, appliedSet, templates)
			}
		}
	}

	var delta map[string]any
	if len(st.delta) > 0 {
		delta = st.delta
	}

	result := &types.PolicyResult{
		ObjectID:   objectID,
		Violations: violations,
		Delta:      delta,
		Templates:  templates,
	}

	RecordEvaluationMetrics(time.Since(start), len(ruleFiles), len(violations), len(templates))
	return result
}

func applyAssert(st *evalState, origin string, idx int, a *types.AssertAction, violations []types.Violation) []types.Violation {
	actual, ok := resolve.Resolve(st.ctx, st.delta, a.Path)
	if ok && resolve.Compare(actual, types.OpEq, a.Expected) {
		return violations
	}
	v := types.Violation{
		RuleOrigin: origin,
		RuleIndex:  idx,
		Path:       a.Path,
		Expected:   a.Expected,
	}
	if !ok {
		v.ActualMissing = true
	} else {
		v.Actual = actual
	}
	return append(violations, v)
}

func applySet(st *evalState, s *types.SetAction) {
	resolve.WriteDelta(st.delta, s.Path, rawFromValue(s.Value))
}

func applyApply(a *types.ApplyAction, appliedSet map[string]struct{}, templates []string) []string {
	if _, seen := appliedSet[a.Template]; seen {
		return templates
	}
	appliedSet[a.Template] = struct{}{}
	return append(templates, a.Template)
}

// rawFromValue converts a types.Value literal into the plain Go
// representation stored in the delta tree (and, transitively, observed by
// resolve.Resolve on subsequent rules).
func rawFromValue(v types.Value) any {
	switch v.Kind() {
	case types.KindString:
		s, _ := v.AsString()
		return s
	case types.KindNumber:
		n, _ := v.AsNumber()
		return n
	case types.KindBool:
		b, _ := v.AsBool()
		return b
	case types.KindNull:
		return nil
	default:
		return nil
	}
}

// --- condition evaluation ---

func evalExpr(st *evalState, e *types.Expr, depth int) bool {
	if st.depthExceeded {
		return false
	}
	if depth > MaxNestingDepth {
		st.depthExceeded = true
		return false
	}

	switch {
	case e.Comparison != nil:
		return evalComparison(st, e.Comparison)
	case e.Existence != nil:
		return evalExistence(st, e.Existence)
	case e.And != nil:
		return evalExpr(st, e.And.Left, depth+1) && evalExpr(st, e.And.Right, depth+1)
	case e.Or != nil:
		return evalExpr(st, e.Or.Left, depth+1) || evalExpr(st, e.Or.Right, depth+1)
	case e.Not != nil:
		return !evalExpr(st, e.Not, depth+1)
	default:
		return false
	}
}

func evalComparison(st *evalState, c *types.Comparison) bool {
	left, ok := resolve.Resolve(st.ctx, st.delta, c.Left)
	if !ok {
		// Missing is false for every comparison operator; it never
		// propagates as an error (§4.3).
		return false
	}
	return resolve.Compare(left, c.Op, c.Right)
}

func evalExistence(st *evalState, e *types.ExistenceCheck) bool {
	v, ok := resolve.Resolve(st.ctx, st.delta, e.Left)
	isNull := !ok || v.IsNull()
	if e.Polarity == types.IsNotNull {
		return !isNull
	}
	return isNull
}
