// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"strconv"
)

// Float64FromString parses the string read by r as a float64.
func Float64FromString(r Reader[string]) Reader[float64] {
	return Map(r, func(_ context.Context, s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}
