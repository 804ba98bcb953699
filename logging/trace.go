// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"context"
	"log/slog"

	"github.com/z5labs/fibonacci/slogfield"

	"go.opentelemetry.io/otel/trace"
)

// TraceHandler is an [slog.Handler] which correlates log records with
// the span carried by the record's context. When the span context is
// valid an "otel" group holding the trace and span ids is added.
type TraceHandler struct {
	next slog.Handler
}

// NewTraceHandler wraps h in a [TraceHandler].
func NewTraceHandler(h slog.Handler) *TraceHandler {
	return &TraceHandler{next: h}
}

// Enabled implements the [slog.Handler] interface.
func (h *TraceHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

// Handle implements the [slog.Handler] interface.
func (h *TraceHandler) Handle(ctx context.Context, record slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return h.next.Handle(ctx, record)
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slogfield.String("trace_id", spanCtx.TraceID().String()),
			slogfield.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.next.Handle(ctx, r)
}

// WithAttrs implements the [slog.Handler] interface.
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewTraceHandler(h.next.WithAttrs(attrs))
}

// WithGroup implements the [slog.Handler] interface.
func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return NewTraceHandler(h.next.WithGroup(name))
}
