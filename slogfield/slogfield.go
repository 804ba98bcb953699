// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides typed constructors for common [slog.Attr]s.
package slogfield

import (
	"log/slog"
	"time"
)

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for an error. The key is always "error".
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// Float64 returns an slog.Attr for a float64.
func Float64(key string, f float64) slog.Attr {
	return slog.Float64(key, f)
}

// Int returns an slog.Attr for an int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Int64 returns an slog.Attr for an int64.
func Int64(key string, n int64) slog.Attr {
	return slog.Int64(key, n)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}
