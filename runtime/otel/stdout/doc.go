// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package stdout provides exporters which write telemetry as pretty printed
// JSON to an [io.Writer]. They back the "stdout" exporter setting for local runs.
package stdout
