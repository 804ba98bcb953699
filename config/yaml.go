// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"
	"io"

	"github.com/z5labs/fibonacci/internal/try"

	"gopkg.in/yaml.v3"
)

// InvalidYamlError occurs if the underlying [io.Reader] contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the [error] interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// Yaml parses the YAML document read by r into a map. If the underlying
// reader is also an [io.Closer] it is closed once parsed. An empty
// document is reported as an unset value.
func Yaml[T io.Reader](r Reader[T]) Reader[map[string]any] {
	return ReaderFunc[map[string]any](func(ctx context.Context) (val Value[map[string]any], err error) {
		src, err := r.Read(ctx)
		if err != nil {
			return Value[map[string]any]{}, err
		}

		rd, ok := src.Value()
		if !ok {
			return Value[map[string]any]{}, nil
		}
		defer try.Close(&err, rd)

		b, err := io.ReadAll(rd)
		if err != nil {
			return Value[map[string]any]{}, err
		}

		var m map[string]any
		err = yaml.Unmarshal(b, &m)
		if err != nil {
			return Value[map[string]any]{}, InvalidYamlError{Cause: err}
		}
		if m == nil {
			return Value[map[string]any]{}, nil
		}
		return ValueOf(m), nil
	})
}
