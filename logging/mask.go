// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"context"
	"log/slog"
	"slices"
)

// Masked is the value every masked attribute is replaced with.
const Masked = "****"

// MaskHandler is an [slog.Handler] which replaces the values of
// attributes with sensitive keys, e.g. OTLP exporter headers, with [Masked].
// Attributes nested in groups are masked as well.
type MaskHandler struct {
	next slog.Handler
	keys []string
}

// NewMaskHandler wraps h in a [MaskHandler] masking the given attribute keys.
func NewMaskHandler(h slog.Handler, keys ...string) *MaskHandler {
	return &MaskHandler{next: h, keys: keys}
}

// Enabled implements the [slog.Handler] interface.
func (h *MaskHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

// Handle implements the [slog.Handler] interface.
func (h *MaskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.keys) == 0 {
		return h.next.Handle(ctx, record)
	}

	attrs := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.mask(a))
		return true
	})

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(attrs...)
	return h.next.Handle(ctx, r)
}

// WithAttrs implements the [slog.Handler] interface.
func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return NewMaskHandler(h.next.WithAttrs(masked), h.keys...)
}

// WithGroup implements the [slog.Handler] interface.
func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return NewMaskHandler(h.next.WithGroup(name), h.keys...)
}

func (h *MaskHandler) mask(a slog.Attr) slog.Attr {
	if slices.Contains(h.keys, a.Key) {
		return slog.String(a.Key, Masked)
	}
	if a.Value.Kind() != slog.KindGroup {
		return a
	}

	group := a.Value.Group()
	masked := make([]any, len(group))
	for i, ga := range group {
		masked[i] = h.mask(ga)
	}
	return slog.Group(a.Key, masked...)
}
