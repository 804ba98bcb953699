// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fibonacci

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	testCases := []struct {
		name   string
		n      int
		expect int64
	}{
		{name: "first term", n: 1, expect: 1},
		{name: "second term", n: 2, expect: 1},
		{name: "third term", n: 3, expect: 2},
		{name: "tenth term", n: 10, expect: 55},
		{name: "twentieth term", n: 20, expect: 6765},
		{name: "fiftieth term", n: 50, expect: 12586269025},
		{name: "largest term", n: 90, expect: 2880067194370816120},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Compute(tc.n)
			require.NoError(t, err)
			require.Equal(t, tc.expect, result)
		})
	}
}

func TestCompute_Recurrence(t *testing.T) {
	prev, err := Compute(1)
	require.NoError(t, err)
	curr, err := Compute(2)
	require.NoError(t, err)

	for n := 3; n <= MaxN; n++ {
		next, err := Compute(n)
		require.NoError(t, err)
		require.Equal(t, prev+curr, next, "fib(%d)", n)
		require.Positive(t, next)

		prev, curr = curr, next
	}
}

func TestCompute_OutOfRange(t *testing.T) {
	testCases := []struct {
		name string
		n    int
	}{
		{name: "zero", n: 0},
		{name: "negative", n: -1},
		{name: "one past max", n: MaxN + 1},
		{name: "min int", n: math.MinInt},
		{name: "max int", n: math.MaxInt},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Compute(tc.n)
			require.Zero(t, result)
			require.ErrorIs(t, err, ErrOutOfRange)
			require.EqualError(t, err, "n must be between 1 and 90")

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tc.n, verr.N)
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	for n := MinN - 1; n <= MaxN+1; n++ {
		r1, err1 := Compute(n)
		r2, err2 := Compute(n)
		require.Equal(t, r1, r2)
		require.Equal(t, err1, err2)
	}
}
