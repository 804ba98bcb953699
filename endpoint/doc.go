// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package endpoint serves Fibonacci computations over HTTP.
//
// Every computation attempt is recorded as one span named "fibonacci",
// one increment of the fibonacci.invocations counter and one log line.
// Requests which never reach the computation, e.g. a non integer n,
// produce none of these.
package endpoint
