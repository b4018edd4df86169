// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

//go:build integration

// Package engine_test exercises the full parse -> evaluate -> compose
// pipeline through the public API surface, scenario by scenario, the way
// an external caller actually drives it (as opposed to the package-level
// unit tests, which poke individual functions in isolation).
package engine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bedecarroll/unet-sub001/internal/rules/dsl"
	"github.com/bedecarroll/unet-sub001/internal/rules/engine"
	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

var _ = Describe("policy rule pipeline", func() {
	var nodeData map[string]any

	BeforeEach(func() {
		nodeData = map[string]any{
			"vendor":           "cisco",
			"firmware_version": "16.1",
		}
	})

	It("reports a violation when an ASSERT disagrees with the record (S1)", func() {
		rf, err := dsl.Parse(`WHEN vendor == "cisco" THEN ASSERT firmware_version IS "17.3"`)
		Expect(err).NotTo(HaveOccurred())

		ctx := types.NewEvaluationContext(nodeData, nil)
		result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "integration-s1")

		Expect(result.Violations).To(HaveLen(1))
		Expect(result.Violations[0].Path).To(Equal(types.FieldPath{"firmware_version"}))
	})

	It("lets a later rule observe an earlier SET in the same pass (S2)", func() {
		text := "WHEN vendor == \"cisco\" THEN SET custom_data.classified TO true\n" +
			"WHEN custom_data.classified == true THEN APPLY \"cisco-baseline\"\n"
		rf, err := dsl.Parse(text)
		Expect(err).NotTo(HaveOccurred())

		ctx := types.NewEvaluationContext(nodeData, nil)
		result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "integration-s2")

		Expect(result.Templates).To(Equal([]string{"cisco-baseline"}))
	})

	It("applies last-writer-wins across two SETs to the same path (S3)", func() {
		text := "WHEN vendor == \"cisco\" THEN SET custom_data.x TO 1\n" +
			"WHEN vendor == \"cisco\" THEN SET custom_data.x TO 2\n"
		rf, err := dsl.Parse(text)
		Expect(err).NotTo(HaveOccurred())

		ctx := types.NewEvaluationContext(nodeData, nil)
		result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "integration-s3")

		Expect(result.Delta["custom_data"]).To(Equal(map[string]any{"x": 2.0}))
	})

	It("never errors on a condition over a missing field (S4)", func() {
		rf, err := dsl.Parse(`WHEN nonexistent == "x" THEN APPLY "t"`)
		Expect(err).NotTo(HaveOccurred())

		ctx := types.NewEvaluationContext(map[string]any{}, nil)
		result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "integration-s4")

		Expect(result.Templates).To(BeEmpty())
		Expect(result.Violations).To(BeEmpty())
	})

	It("drives a SET off an IS NULL existence check (S5)", func() {
		rf, err := dsl.Parse(`WHEN custom_data.reviewed IS NULL THEN SET custom_data.reviewed TO false`)
		Expect(err).NotTo(HaveOccurred())

		ctx := types.NewEvaluationContext(map[string]any{}, nil)
		result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "integration-s5")

		Expect(result.Delta["custom_data"]).To(Equal(map[string]any{"reviewed": false}))
	})

	It("reports an unexpected-token parse failure on line 1 for dangling AND before THEN (S6)", func() {
		_, err := dsl.Parse(`WHEN vendor == "cisco" AND THEN SET custom_data.x TO 1`)
		Expect(err).To(HaveOccurred())

		var perr *dsl.ParseError
		Expect(err).To(BeAssignableToTypeOf(perr))
		pe := err.(*dsl.ParseError)
		Expect(pe.Line).To(Equal(1))
		Expect(pe.Kind).To(Equal(dsl.KindUnexpectedToken))
	})

	It("composes a delta over node_data without mutating either input", func() {
		rf, err := dsl.Parse(`WHEN vendor == "cisco" THEN SET custom_data.flag TO true`)
		Expect(err).NotTo(HaveOccurred())

		ctx := types.NewEvaluationContext(nodeData, nil)
		result := engine.Evaluate([]*types.RuleFile{rf}, ctx, "integration-compose")

		merged := engine.Compose(result.Delta, nodeData)
		Expect(merged["vendor"]).To(Equal("cisco"))
		Expect(merged["custom_data"]).To(Equal(map[string]any{"flag": true}))
		Expect(nodeData).NotTo(HaveKey("custom_data"))
	})
})
