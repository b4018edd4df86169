// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package errutil adapts structured oops errors into slog records. The
// policy core's own dsl.ParseError is a plain struct and never passes
// through here; this package is strictly for the ambient error paths in
// the CLI, config loading, and schema validation.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err against logger. Oops errors are unpacked into their
// code and context fields so they're queryable as structured attributes
// rather than buried in a single message string; any other error logs
// under a plain "error" attribute.
func LogError(logger *slog.Logger, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Error(msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	logger.Error(msg, attrs...)
}
