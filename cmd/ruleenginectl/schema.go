// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/bedecarroll/unet-sub001/internal/rules/schema"
	"github.com/bedecarroll/unet-sub001/internal/xdg"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate or validate JSON Schemas for the context and result documents",
	}
	cmd.AddCommand(newSchemaGenerateCmd())
	cmd.AddCommand(newSchemaValidateCmd())
	return cmd
}

func newSchemaGenerateCmd() *cobra.Command {
	var (
		kind    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the JSON Schema for the chosen document kind",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := schema.Generate(schema.Kind(kind))
			if err != nil {
				return err
			}

			if !noCache {
				if err := cacheSchema(schema.Kind(kind), data); err != nil {
					slog.Warn("failed to cache generated schema", "kind", kind, "error", err)
				}
			}

			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "context", `document kind: "context" or "result"`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip writing a copy to the XDG data directory")
	return cmd
}

// cacheSchema writes data under the XDG data directory so repeated
// `schema generate` calls and other tooling can read the last-generated
// schema off disk without reinvoking the core, mirroring the
// empty-path-means-XDG-default, EnsureDir-then-write convention used for
// the teacher's audit WAL file.
func cacheSchema(kind schema.Kind, data []byte) error {
	dir := xdg.DataDir()
	if err := xdg.EnsureDir(dir); err != nil {
		return oops.In("schema").With("dir", dir).Wrap(err)
	}
	path := filepath.Join(dir, string(kind)+".schema.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return oops.In("schema").With("path", path).Wrap(err)
	}
	return nil
}

func newSchemaValidateCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a YAML or JSON document against the chosen schema kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return oops.In("schema").With("path", args[0]).Wrap(err)
			}
			if err := schema.Validate(schema.Kind(kind), data); err != nil {
				return err
			}
			fmt.Printf("%s is valid against the %s schema\n", args[0], kind)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "context", `document kind: "context" or "result"`)
	return cmd
}
