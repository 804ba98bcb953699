// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fibonacci

import (
	"errors"
	"fmt"
)

// Valid range of n accepted by [Compute]. fib(90) is the largest term
// which fits in an int64.
const (
	MinN = 1
	MaxN = 90
)

// ErrOutOfRange is matched by every [ValidationError] returned from [Compute].
var ErrOutOfRange = errors.New("n out of range")

// ValidationError is returned by [Compute] when n is outside [MinN, MaxN].
type ValidationError struct {
	N int
}

// Error implements the [error] interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("n must be between %d and %d", MinN, MaxN)
}

// Is reports whether target is [ErrOutOfRange].
func (e *ValidationError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Compute returns the n-th Fibonacci term where fib(1) = fib(2) = 1.
func Compute(n int) (int64, error) {
	if n < MinN || n > MaxN {
		return 0, &ValidationError{N: n}
	}

	var a, b int64 = 0, 1
	for range n - 1 {
		a, b = b, a+b
	}
	return b, nil
}
