// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gcp exports spans to Google Cloud Trace.
//
// Pair it with the GoogleCloud resource detector of the otel package so spans carry
// the platform attributes of the workload they came from.
package gcp
