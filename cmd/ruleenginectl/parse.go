// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/bedecarroll/unet-sub001/internal/rules/dsl"
)

func newParseCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "parse <rule-file>",
		Short: "Parse a rule file and report syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return oops.In("parse").With("path", args[0]).Wrap(err)
			}

			text := stripYAMLFrontMatter(string(raw))

			if declared, ok := dsl.ExtractGrammarVersion(text); ok {
				if err := dsl.CheckGrammarCompatibility(declared); err != nil {
					return oops.In("parse").With("path", args[0]).Wrap(err)
				}
			}

			rf, err := dsl.ParseNamed(text, args[0])
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Printf("%d rule(s) parsed from %s\n", len(rf.Rules), args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the success summary")
	return cmd
}

// stripYAMLFrontMatter removes a leading "---"-delimited block, per §6:
// front-matter stripping is a caller convention, not a core concern.
func stripYAMLFrontMatter(text string) string {
	if !strings.HasPrefix(text, "---\n") && text != "---" {
		return text
	}
	rest := strings.TrimPrefix(text, "---\n")
	if idx := strings.Index(rest, "\n---\n"); idx >= 0 {
		return rest[idx+len("\n---\n"):]
	}
	return text
}
