// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
)

// Env reads the environment variable named key. A missing variable
// is reported as an unset value.
func Env(key string) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		v, ok := os.LookupEnv(key)
		if !ok {
			return Value[string]{}, nil
		}
		return ValueOf(v), nil
	})
}

// EnvConflictError is returned by [EnvMap] when one variable sets a value
// at a path another variable nests under, e.g. FIBONACCI_HTTP and
// FIBONACCI_HTTP__ADDR.
type EnvConflictError struct {
	Key   string
	Other string
}

// Error implements the [error] interface.
func (e EnvConflictError) Error() string {
	return fmt.Sprintf("environment variable %s conflicts with %s", e.Key, e.Other)
}

// EnvMap collects every environment variable starting with prefix into
// a nested map. After the prefix is removed, a double underscore
// separates path segments and segments are lower cased, e.g.
// FIBONACCI_OTEL__OTLP__ENDPOINT becomes otel.otlp.endpoint.
// The value is unset if no variable matches. Variables whose paths
// overlap are reported as an [EnvConflictError].
func EnvMap(prefix string) Reader[map[string]any] {
	return ReaderFunc[map[string]any](func(ctx context.Context) (Value[map[string]any], error) {
		vars := make(map[string]string)
		for _, kv := range os.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(k, prefix) {
				continue
			}
			vars[k] = v
		}
		if len(vars) == 0 {
			return Value[map[string]any]{}, nil
		}

		m := make(map[string]any)
		owners := make(map[string]string, len(vars))
		for _, k := range slices.Sorted(maps.Keys(vars)) {
			path := strings.Split(strings.ToLower(strings.TrimPrefix(k, prefix)), "__")
			key := strings.Join(path, ".")
			for owned, other := range owners {
				if overlaps(owned, key) {
					return Value[map[string]any]{}, EnvConflictError{Key: k, Other: other}
				}
			}
			owners[key] = k
			setPath(m, path, vars[k])
		}
		return ValueOf(m), nil
	})
}

// overlaps reports whether a and b are the same path or one nests under the other.
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".")
}

func setPath(m map[string]any, path []string, v any) {
	for _, seg := range path[:len(path)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[seg] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}
