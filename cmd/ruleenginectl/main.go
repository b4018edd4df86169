// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package main is the entry point for ruleenginectl, a one-shot CLI for
// parsing rule files, evaluating them against a context document, and
// generating/validating the JSON Schemas for the context and result
// documents.
package main

import (
	"log/slog"
	"os"

	"github.com/bedecarroll/unet-sub001/pkg/errutil"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		errutil.LogError(slog.Default(), "ruleenginectl failed", err)
		os.Exit(1)
	}
}
