// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Merge deep merges the maps read by rs. Later maps take precedence and
// nested maps are merged key by key. The value is unset if none of rs
// returned a value.
func Merge(rs ...Reader[map[string]any]) Reader[map[string]any] {
	return ReaderFunc[map[string]any](func(ctx context.Context) (Value[map[string]any], error) {
		var (
			merged map[string]any
			set    bool
		)
		for _, r := range rs {
			val, err := r.Read(ctx)
			if err != nil {
				return Value[map[string]any]{}, err
			}

			m, ok := val.Value()
			if !ok {
				continue
			}
			merged = mergeMaps(merged, m)
			set = true
		}
		if !set {
			return Value[map[string]any]{}, nil
		}
		return ValueOf(merged), nil
	})
}

func mergeMaps(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	maps.Copy(out, dst)
	for k, v := range src {
		sm, srcIsMap := v.(map[string]any)
		dm, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = mergeMaps(dm, sm)
			continue
		}
		out[k] = v
	}
	return out
}

// DecodeError is returned by [Decode] when a map can not be decoded
// into the target type.
type DecodeError struct {
	Cause error
}

// Error implements the [error] interface.
func (e DecodeError) Error() string {
	return fmt.Sprintf("failed to decode config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e DecodeError) Unwrap() error {
	return e.Cause
}

// Decode decodes the map read by r into a T using the "config" struct tag.
// Values are weakly typed so strings from the environment or command
// line decode into numbers, booleans and durations. Durations must be
// strings accepted by [time.ParseDuration]; bare numbers are rejected with
// a [TypeCoercionError]. Types implementing
// [encoding.TextUnmarshaler], e.g. [log/slog.Level], are decoded from strings.
func Decode[T any](r Reader[map[string]any]) Reader[T] {
	return Map(r, func(_ context.Context, m map[string]any) (T, error) {
		var v T
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "config",
			Result:           &v,
			WeaklyTypedInput: true,
			DecodeHook: composeDecodeHooks(
				textUnmarshalerHookFunc(),
				timeDurationHookFunc(),
			),
		})
		if err != nil {
			return v, DecodeError{Cause: err}
		}

		err = dec.Decode(m)
		if err != nil {
			return v, DecodeError{Cause: err}
		}
		return v, nil
	})
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when a config value can not be coerced
// into the type of the struct field it is decoded into.
type TypeCoercionError struct {
	From  reflect.Type
	To    reflect.Type
	Cause error
}

// Error implements the [error] interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.From, e.To, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, TypeCoercionError{
				From:  f.Type(),
				To:    t.Type(),
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}

		result := reflect.New(t)
		u, ok := result.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}

		err := u.UnmarshalText([]byte(data.(string)))
		if err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

// errNonStringDuration rejects bare numbers for durations since their unit
// is ambiguous, e.g. interval: 60.
var errNonStringDuration = errors.New("duration must be a string with a unit, e.g. 60s")

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != durationType {
			return nil, errInvalidDecodeCondition
		}

		switch {
		case f == durationType:
			return data, nil
		case f.Kind() == reflect.String:
			return time.ParseDuration(data.(string))
		default:
			return nil, errNonStringDuration
		}
	}
}
