// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"fmt"
	"time"
)

// ProviderInitError is returned when a telemetry provider, or one of
// the exporters backing it, could not be constructed.
type ProviderInitError struct {
	Provider string
	Cause    error
}

// Error implements the [error] interface.
func (e ProviderInitError) Error() string {
	return fmt.Sprintf("failed to initialize %s provider: %s", e.Provider, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ProviderInitError) Unwrap() error {
	return e.Cause
}

// ShutdownTimeoutError is returned when the providers could not be
// shut down within the configured timeout. Telemetry still buffered at
// that point is lost.
type ShutdownTimeoutError struct {
	Timeout time.Duration
	Cause   error
}

// Error implements the [error] interface.
func (e ShutdownTimeoutError) Error() string {
	return fmt.Sprintf("telemetry providers did not shut down within %s: %s", e.Timeout, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ShutdownTimeoutError) Unwrap() error {
	return e.Cause
}
