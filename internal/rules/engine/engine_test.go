// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bedecarroll/unet-sub001/internal/rules/dsl"
	"github.com/bedecarroll/unet-sub001/internal/rules/engine"
	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

func mustParse(t *testing.T, text string) *types.RuleFile {
	t.Helper()
	rf, err := dsl.Parse(text)
	require.NoError(t, err)
	return rf
}

// TestAssertFiresOnMismatch covers scenario S1: an ASSERT whose expected
// value disagrees with the resolved actual value produces one Violation.
func TestAssertFiresOnMismatch(t *testing.T) {
	rf := mustParse(t, `WHEN vendor == "cisco" THEN ASSERT firmware_version IS "17.3"`)
	ctx := types.NewEvaluationContext(map[string]any{
		"vendor":           "cisco",
		"firmware_version": "16.1",
	}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-1")
	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	require.Equal(t, types.FieldPath{"firmware_version"}, v.Path)
	require.False(t, v.ActualMissing)
	s, _ := v.Actual.AsString()
	require.Equal(t, "16.1", s)
}

// TestSetThenApplyObservesSet covers scenario S2: a SET performed by an
// earlier rule is visible to a later rule's condition in the same pass.
func TestSetThenApplyObservesSet(t *testing.T) {
	text := "WHEN vendor == \"cisco\" THEN SET custom_data.classified TO true\n" +
		"WHEN custom_data.classified == true THEN APPLY \"cisco-baseline\"\n"
	rf := mustParse(t, text)
	ctx := types.NewEvaluationContext(map[string]any{"vendor": "cisco"}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-2")
	require.Equal(t, []string{"cisco-baseline"}, result.Templates)
	require.Equal(t, map[string]any{"classified": true}, result.Delta["custom_data"])
}

// TestLastWriterWins covers scenario S3: two SET rules targeting the same
// path apply in rule order, and the later one wins.
func TestLastWriterWins(t *testing.T) {
	text := "WHEN vendor == \"cisco\" THEN SET custom_data.x TO 1\n" +
		"WHEN vendor == \"cisco\" THEN SET custom_data.x TO 2\n"
	rf := mustParse(t, text)
	ctx := types.NewEvaluationContext(map[string]any{"vendor": "cisco"}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-3")
	require.Equal(t, map[string]any{"x": 2.0}, result.Delta["custom_data"])
}

// TestMissingFieldNeverErrors covers scenario S4: a condition over an
// entirely absent field evaluates to false without any error.
func TestMissingFieldNeverErrors(t *testing.T) {
	rf := mustParse(t, `WHEN nonexistent == "x" THEN APPLY "t"`)
	ctx := types.NewEvaluationContext(map[string]any{}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-4")
	require.Empty(t, result.Templates)
	require.Empty(t, result.Violations)
}

// TestExistenceCheckThenSet covers scenario S5: IS NULL over an absent
// field is true, driving a SET.
func TestExistenceCheckThenSet(t *testing.T) {
	rf := mustParse(t, `WHEN custom_data.reviewed IS NULL THEN SET custom_data.reviewed TO false`)
	ctx := types.NewEvaluationContext(map[string]any{}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-5")
	require.Equal(t, map[string]any{"reviewed": false}, result.Delta["custom_data"])
}

func TestApplyDedupesAndPreservesFirstOccurrenceOrder(t *testing.T) {
	text := "WHEN a == 1 THEN APPLY \"x\"\n" +
		"WHEN a == 1 THEN APPLY \"y\"\n" +
		"WHEN a == 1 THEN APPLY \"x\"\n"
	rf := mustParse(t, text)
	ctx := types.NewEvaluationContext(map[string]any{"a": 1.0}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-6")
	require.Equal(t, []string{"x", "y"}, result.Templates)
}

func TestEvaluateNeverMutatesInputContext(t *testing.T) {
	nodeData := map[string]any{"vendor": "cisco"}
	derivedData := map[string]any{"risk_score": 1.0}
	ctx := types.NewEvaluationContext(nodeData, derivedData)
	rf := mustParse(t, `WHEN vendor == "cisco" THEN SET custom_data.x TO 1`)

	engine.Evaluate([]*types.RuleFile{rf}, ctx, "node-7")

	require.Equal(t, map[string]any{"vendor": "cisco"}, nodeData)
	require.Equal(t, map[string]any{"risk_score": 1.0}, derivedData)
}

func TestEvaluateEmptyRuleFilesProducesEmptyResult(t *testing.T) {
	ctx := types.NewEvaluationContext(map[string]any{}, nil)
	result := engine.Evaluate(nil, ctx, "node-8")
	require.Empty(t, result.Violations)
	require.Empty(t, result.Templates)
	require.Nil(t, result.Delta)
}

func TestEvaluateDeMorgansLaw(t *testing.T) {
	notAndRf := mustParse(t, `WHEN NOT (a == 1 AND b == 2) THEN APPLY "t"`)
	orNotRf := mustParse(t, `WHEN (NOT a == 1) OR (NOT b == 2) THEN APPLY "t"`)

	ctx := types.NewEvaluationContext(map[string]any{"a": 1.0, "b": 3.0}, nil)

	r1 := engine.Evaluate([]*types.RuleFile{notAndRf}, ctx, "n")
	r2 := engine.Evaluate([]*types.RuleFile{orNotRf}, ctx, "n")
	require.Equal(t, r1.Templates, r2.Templates)
}

func TestEvaluateFileOrderThenRuleOrder(t *testing.T) {
	rf1 := mustParse(t, `WHEN a == 1 THEN APPLY "from-file-1"`)
	rf2 := mustParse(t, `WHEN a == 1 THEN APPLY "from-file-2"`)
	ctx := types.NewEvaluationContext(map[string]any{"a": 1.0}, nil)

	result := engine.Evaluate([]*types.RuleFile{rf1, rf2}, ctx, "node-9")
	require.Equal(t, []string{"from-file-1", "from-file-2"}, result.Templates)
}

func TestComposeDeepMergesDeltaOverNodeData(t *testing.T) {
	nodeData := map[string]any{
		"vendor":      "cisco",
		"custom_data": map[string]any{"a": 1.0, "b": 2.0},
	}
	delta := map[string]any{
		"custom_data": map[string]any{"b": 3.0, "c": 4.0},
	}

	merged := engine.Compose(delta, nodeData)
	require.Equal(t, "cisco", merged["vendor"])
	require.Equal(t, map[string]any{"a": 1.0, "b": 3.0, "c": 4.0}, merged["custom_data"])

	// nodeData must remain untouched.
	require.Equal(t, map[string]any{"a": 1.0, "b": 2.0}, nodeData["custom_data"])
}
