// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package logging provides structured logging with OpenTelemetry trace
// context, for use by cmd/ruleenginectl and the ambient packages it calls.
// The policy core (internal/rules/...) never logs: it stays a pure
// library, so this package has no dependents there.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// traceHandler wraps a slog.Handler to add trace context and a stable
// component tag, so log lines from a multi-file evaluation run (the CLI
// may load several rule files in one invocation) can be correlated back
// to this binary in aggregated log storage.
type traceHandler struct {
	handler   slog.Handler
	component string
	version   string
}

// Handle adds trace context to the log record.
func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("component", h.component),
		slog.String("version", h.version),
	)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

// Enabled returns true if the level is enabled.
func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes.
func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{
		handler:   h.handler.WithAttrs(attrs),
		component: h.component,
		version:   h.version,
	}
}

// WithGroup returns a new handler with the given group.
func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{
		handler:   h.handler.WithGroup(name),
		component: h.component,
		version:   h.version,
	}
}

// ParseLevel maps a config/flag string to a slog.Level, defaulting to Info
// for anything it doesn't recognize rather than rejecting the config.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a configured slog.Logger.
// format: "json" or "text" (defaults to "json" if empty).
// level: passed through ParseLevel.
// If w is nil, writes to os.Stderr.
func Setup(component, version, format, level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var baseHandler slog.Handler
	if format == "text" {
		baseHandler = slog.NewTextHandler(w, opts)
	} else {
		baseHandler = slog.NewJSONHandler(w, opts)
	}

	handler := &traceHandler{
		handler:   baseHandler,
		component: component,
		version:   version,
	}

	return slog.New(handler)
}

// SetDefault builds and installs the default logger.
func SetDefault(component, version, format, level string) {
	slog.SetDefault(Setup(component, version, format, level, nil))
}
