// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fibonacci computes terms of the Fibonacci sequence.
//
// The module around it serves [Compute] over HTTP as an instrumented
// endpoint: every computation is traced, counted and logged, and the
// OpenTelemetry providers backing that instrumentation are initialized
// once per process and drained on shutdown. See the endpoint, runtime/otel
// and service packages.
package fibonacci
