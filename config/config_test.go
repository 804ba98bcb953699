// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func errReader[T any](err error) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, err
	})
}

func TestValue_Value(t *testing.T) {
	v, ok := ValueOf(90).Value()
	require.True(t, ok)
	require.Equal(t, 90, v)

	v, ok = Value[int]{}.Value()
	require.False(t, ok)
	require.Zero(t, v)
}

func TestRead(t *testing.T) {
	readErr := errors.New("read failed")

	testCases := []struct {
		name        string
		reader      Reader[string]
		expectedVal string
		expectErr   error
	}{
		{
			name:        "returns value when set",
			reader:      ReaderOf("fibonacci"),
			expectedVal: "fibonacci",
		},
		{
			name:      "returns error when reader fails",
			reader:    errReader[string](readErr),
			expectErr: readErr,
		},
		{
			name:      "returns error when value not set",
			reader:    EmptyReader[string](),
			expectErr: ErrValueNotSet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Read(context.Background(), tc.reader)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				require.Zero(t, val)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestMust(t *testing.T) {
	require.Equal(t, 123, Must(context.Background(), ReaderOf(123)))

	require.Panics(t, func() {
		Must(context.Background(), errReader[int](errors.New("read failed")))
	})
	require.Panics(t, func() {
		Must(context.Background(), EmptyReader[int]())
	})
}

func TestMustOr(t *testing.T) {
	testCases := []struct {
		name        string
		reader      Reader[int]
		expectedVal int
	}{
		{
			name:        "returns value when set",
			reader:      ReaderOf(42),
			expectedVal: 42,
		},
		{
			name:        "returns default when value not set",
			reader:      EmptyReader[int](),
			expectedVal: 8080,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expectedVal, MustOr(context.Background(), 8080, tc.reader))
		})
	}
}

func TestDefault(t *testing.T) {
	testCases := []struct {
		name        string
		reader      Reader[string]
		expectedVal string
		expectErr   bool
	}{
		{
			name:        "returns original value when set",
			reader:      ReaderOf(":9090"),
			expectedVal: ":9090",
		},
		{
			name:        "returns default when value not set",
			reader:      EmptyReader[string](),
			expectedVal: ":8080",
		},
		{
			name:      "propagates error",
			reader:    errReader[string](errors.New("read failed")),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Read(context.Background(), Default(":8080", tc.reader))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestOr(t *testing.T) {
	testCases := []struct {
		name        string
		readers     []Reader[int]
		expectedVal int
		expectSet   bool
		expectErr   bool
	}{
		{
			name:        "returns first set value",
			readers:     []Reader[int]{EmptyReader[int](), ReaderOf(42), ReaderOf(99)},
			expectedVal: 42,
			expectSet:   true,
		},
		{
			name:    "returns unset when no readers have value",
			readers: []Reader[int]{EmptyReader[int](), EmptyReader[int]()},
		},
		{
			name:    "returns unset without readers",
			readers: nil,
		},
		{
			name:      "propagates error",
			readers:   []Reader[int]{EmptyReader[int](), errReader[int](errors.New("read failed")), ReaderOf(1)},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Or(tc.readers...).Read(context.Background())
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			v, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
			require.Equal(t, tc.expectedVal, v)
		})
	}
}

func TestMap(t *testing.T) {
	double := func(ctx context.Context, n int) (int, error) {
		return 2 * n, nil
	}

	testCases := []struct {
		name        string
		reader      Reader[int]
		mapper      func(context.Context, int) (int, error)
		expectedVal int
		expectSet   bool
		expectErr   bool
	}{
		{
			name:        "maps value when set",
			reader:      ReaderOf(21),
			mapper:      double,
			expectedVal: 42,
			expectSet:   true,
		},
		{
			name:   "returns unset when reader returns unset",
			reader: EmptyReader[int](),
			mapper: double,
		},
		{
			name:      "propagates reader error",
			reader:    errReader[int](errors.New("read failed")),
			mapper:    double,
			expectErr: true,
		},
		{
			name:   "propagates mapper error",
			reader: ReaderOf(1),
			mapper: func(ctx context.Context, n int) (int, error) {
				return 0, errors.New("map failed")
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Map(tc.reader, tc.mapper).Read(context.Background())
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			v, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
			require.Equal(t, tc.expectedVal, v)
		})
	}
}

func TestBind(t *testing.T) {
	lookup := func(ctx context.Context, key string) Reader[int] {
		if key == "max" {
			return ReaderOf(90)
		}
		return EmptyReader[int]()
	}

	testCases := []struct {
		name        string
		reader      Reader[string]
		binder      func(context.Context, string) Reader[int]
		expectedVal int
		expectSet   bool
		expectErr   bool
	}{
		{
			name:        "binds value when set",
			reader:      ReaderOf("max"),
			binder:      lookup,
			expectedVal: 90,
			expectSet:   true,
		},
		{
			name:   "returns unset when bound reader is unset",
			reader: ReaderOf("min"),
			binder: lookup,
		},
		{
			name:   "returns unset when reader returns unset",
			reader: EmptyReader[string](),
			binder: lookup,
		},
		{
			name:      "propagates reader error",
			reader:    errReader[string](errors.New("read failed")),
			binder:    lookup,
			expectErr: true,
		},
		{
			name:   "propagates bound reader error",
			reader: ReaderOf("max"),
			binder: func(ctx context.Context, key string) Reader[int] {
				return errReader[int](errors.New("bind failed"))
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Bind(tc.reader, tc.binder).Read(context.Background())
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			v, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
			require.Equal(t, tc.expectedVal, v)
		})
	}
}

func TestFloat64FromString(t *testing.T) {
	ctx := context.Background()

	t.Run("will parse", func(t *testing.T) {
		t.Run("if the value is a decimal number", func(t *testing.T) {
			v, err := Read(ctx, Float64FromString(ReaderOf("0.25")))
			require.NoError(t, err)
			require.InDelta(t, 0.25, v, 0.00001)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the value is not a number", func(t *testing.T) {
			_, err := Read(ctx, Float64FromString(ReaderOf("quarter")))
			require.Error(t, err)
		})
	})

	t.Run("will keep the value unset", func(t *testing.T) {
		t.Run("if the underlying reader is unset", func(t *testing.T) {
			val, err := Float64FromString(EmptyReader[string]()).Read(ctx)
			require.NoError(t, err)

			_, ok := val.Value()
			require.False(t, ok)
		})
	})
}
