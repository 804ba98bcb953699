// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package logging builds the process wide [slog.Logger].
//
// Records are written as JSON or text and are correlated with the active
// span. When an OpenTelemetry [log.LoggerProvider] is given, records are
// also exported through it next to the traces and metrics.
package logging

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
)

// Format selects how log records are encoded.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures the logger built by [New].
type Config struct {
	Level  slog.Level `config:"level"`
	Format Format     `config:"format"`
}

type options struct {
	lp         log.LoggerProvider
	name       string
	maskedKeys []string
}

// Option configures optional behaviour of [NewHandler].
type Option func(*options)

// LoggerProvider fans records out to the given provider through the
// OpenTelemetry slog bridge. name identifies the instrumentation scope.
func LoggerProvider(name string, lp log.LoggerProvider) Option {
	return func(o *options) {
		o.name = name
		o.lp = lp
	}
}

// MaskAttrs masks the values of attributes with any of the given keys.
func MaskAttrs(keys ...string) Option {
	return func(o *options) {
		o.maskedKeys = append(o.maskedKeys, keys...)
	}
}

// NewHandler returns the [slog.Handler] described by cfg writing to w.
func NewHandler(w io.Writer, cfg Config, opts ...Option) slog.Handler {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.Level,
	}

	var h slog.Handler
	switch cfg.Format {
	case FormatText:
		h = slog.NewTextHandler(w, hopts)
	default:
		h = slog.NewJSONHandler(w, hopts)
	}
	h = NewTraceHandler(h)

	if o.lp != nil {
		h = fanoutHandler{
			h,
			levelHandler{
				Handler: otelslog.NewHandler(o.name, otelslog.WithLoggerProvider(o.lp)),
				level:   cfg.Level,
			},
		}
	}
	if len(o.maskedKeys) > 0 {
		h = NewMaskHandler(h, o.maskedKeys...)
	}
	return h
}

// New is a convenience wrapper for slog.New(NewHandler(w, cfg, opts...)).
func New(w io.Writer, cfg Config, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(w, cfg, opts...))
}
