// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bedecarroll/unet-sub001/internal/rules/dsl"
	"github.com/bedecarroll/unet-sub001/internal/rules/engine"
	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

func newEvaluateCmd() *cobra.Command {
	var (
		contextPath string
		objectID    string
		ruleFiles   []string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one or more rule files against a context document",
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(ruleFiles) == 0 {
				ruleFiles = loadedConfig.RulePaths
			}
			if len(ruleFiles) == 0 {
				return oops.In("evaluate").New("at least one rule file is required, via --rules or config rule_paths")
			}

			parsed := make([]*types.RuleFile, 0, len(ruleFiles))
			for _, path := range ruleFiles {
				raw, err := os.ReadFile(path)
				if err != nil {
					return oops.In("evaluate").With("path", path).Wrap(err)
				}
				rf, err := dsl.ParseNamed(stripYAMLFrontMatter(string(raw)), path)
				if err != nil {
					return err
				}
				parsed = append(parsed, rf)
			}

			ctx, err := loadContext(contextPath)
			if err != nil {
				return err
			}

			if objectID == "" {
				objectID = ulid.Make().String()
			}

			result := engine.Evaluate(parsed, ctx, objectID)

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return oops.In("evaluate").Wrap(err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ruleFiles, "rules", nil, "rule file to evaluate (repeatable; evaluated in the order given)")
	cmd.Flags().StringVar(&contextPath, "context", "", "YAML or JSON context document with node_data/derived_data")
	cmd.Flags().StringVar(&objectID, "object-id", "", "object identifier to stamp on the result (a ULID is generated if omitted)")
	return cmd
}

func loadContext(path string) (*types.EvaluationContext, error) {
	if path == "" {
		return types.NewEvaluationContext(map[string]any{}, nil), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("evaluate").With("path", path).Wrap(err)
	}

	var doc struct {
		NodeData    map[string]any `yaml:"node_data" json:"node_data"`
		DerivedData map[string]any `yaml:"derived_data" json:"derived_data"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, oops.In("evaluate").With("path", path).Hint("invalid context document").Wrap(err)
	}

	if doc.NodeData == nil {
		return nil, oops.In("evaluate").With("path", path).New("context document must have a node_data key")
	}
	return types.NewEvaluationContext(doc.NodeData, doc.DerivedData), nil
}
