// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bedecarroll/unet-sub001/internal/rules/engine"
)

func newComposeCmd() *cobra.Command {
	var (
		deltaPath    string
		nodeDataPath string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Deep-merge a policy-result delta over a node_data document",
		RunE: func(_ *cobra.Command, _ []string) error {
			delta, err := readMap(deltaPath)
			if err != nil {
				return err
			}
			nodeData, err := readMap(nodeDataPath)
			if err != nil {
				return err
			}

			merged := engine.Compose(delta, nodeData)

			out, err := json.MarshalIndent(merged, "", "  ")
			if err != nil {
				return oops.In("compose").Wrap(err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&deltaPath, "delta", "", "YAML or JSON document holding the custom_data delta (required)")
	cmd.Flags().StringVar(&nodeDataPath, "node-data", "", "YAML or JSON document holding the base node_data (required)")
	_ = cmd.MarkFlagRequired("delta")
	_ = cmd.MarkFlagRequired("node-data")
	return cmd
}

func readMap(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("compose").With("path", path).Wrap(err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, oops.In("compose").With("path", path).Wrap(err)
	}
	return m, nil
}
