// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"context"
	"errors"
	"log/slog"
)

type fanoutHandler []slog.Handler

func (hs fanoutHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range hs {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (hs fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range hs {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		err := h.Handle(ctx, record.Clone())
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (hs fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(hs))
	for i, h := range hs {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (hs fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(hs))
	for i, h := range hs {
		out[i] = h.WithGroup(name)
	}
	return out
}

// levelHandler drops records below a minimum level.
type levelHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h levelHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lvl >= h.level.Level() && h.Handler.Enabled(ctx, lvl)
}

func (h levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h levelHandler) WithGroup(name string) slog.Handler {
	return levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}
