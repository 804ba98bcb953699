// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package noop provides exporters and providers which discard all telemetry.
//
// They back the "none" exporter setting and turn off individual signals,
// e.g. metrics, without changing the instrumented code.
package noop
