// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel manages the lifecycle of the OpenTelemetry providers of a process.
//
// A [resource.Resource] describing the process is built once from a set of
// detectors with [BuildResource] and shared by the tracer, meter and logger
// providers:
//
//	resourceB := otel.BuildResource(
//	    otel.TelemetrySDK(),
//	    otel.Host(),
//	    otel.Service(name, version, instanceID),
//	    otel.Environment(),
//	)
//
// Detectors are merged in order and the last value wins for a key, so
// OTEL_RESOURCE_ATTRIBUTES overrides the configured service identity,
// which in turn overrides the SDK defaults.
//
// [BuildRuntime] wraps another [app.Runtime], typically an HTTP server:
//
//	runtimeB := otel.BuildRuntime(
//	    otel.BuildTextMapPropagator(),
//	    otel.BuildTracerProvider(resourceB, otel.BuildSampler(ratio), otel.BuildBatchSpanProcessor(spanExporterB)),
//	    otel.BuildMeterProvider(resourceB, otel.BuildPeriodicReader(metricExporterB)),
//	    otel.BuildLoggerProvider(resourceB, otel.BuildBatchLogProcessor(logExporterB)),
//	    serverB,
//	    otel.ShutdownTimeout(config.ReaderOf(5*time.Second)),
//	)
//
// When run, the providers are registered as globals, the wrapped runtime
// runs and, once it returns, the providers are shut down exactly once in
// the order tracer, meter, logger. Shutdown flushes everything still
// buffered and is bounded by a single timeout.
//
// Exporters live in the otlp, stdout, gcp and noop subpackages.
package otel
