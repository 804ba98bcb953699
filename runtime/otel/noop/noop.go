// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package noop

import (
	"context"

	"github.com/z5labs/fibonacci/app"

	"go.opentelemetry.io/otel/log"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanExporter drops every span.
type SpanExporter struct{}

// BuildSpanExporter returns a [SpanExporter].
func BuildSpanExporter() app.Builder[sdktrace.SpanExporter] {
	return app.BuilderOf[sdktrace.SpanExporter](SpanExporter{})
}

// ExportSpans implements the [sdktrace.SpanExporter] interface.
func (SpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

// Shutdown implements the [sdktrace.SpanExporter] interface.
func (SpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// MetricExporter drops every metric.
type MetricExporter struct{}

// BuildMetricExporter returns a [MetricExporter].
func BuildMetricExporter() app.Builder[sdkmetric.Exporter] {
	return app.BuilderOf[sdkmetric.Exporter](MetricExporter{})
}

// Temporality implements the [sdkmetric.Exporter] interface.
func (MetricExporter) Temporality(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

// Aggregation implements the [sdkmetric.Exporter] interface.
func (MetricExporter) Aggregation(kind sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(kind)
}

// Export implements the [sdkmetric.Exporter] interface.
func (MetricExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	return nil
}

// ForceFlush implements the [sdkmetric.Exporter] interface.
func (MetricExporter) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown implements the [sdkmetric.Exporter] interface.
func (MetricExporter) Shutdown(ctx context.Context) error {
	return nil
}

// LogExporter drops every log record.
type LogExporter struct{}

// BuildLogExporter returns a [LogExporter].
func BuildLogExporter() app.Builder[sdklog.Exporter] {
	return app.BuilderOf[sdklog.Exporter](LogExporter{})
}

// Export implements the [sdklog.Exporter] interface.
func (LogExporter) Export(ctx context.Context, records []sdklog.Record) error {
	return nil
}

// ForceFlush implements the [sdklog.Exporter] interface.
func (LogExporter) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown implements the [sdklog.Exporter] interface.
func (LogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// BuildMeterProvider returns a [metric.MeterProvider] whose instruments
// record nothing. It is used when metrics are disabled.
func BuildMeterProvider() app.Builder[metric.MeterProvider] {
	return app.BuilderOf[metric.MeterProvider](metricnoop.NewMeterProvider())
}

// BuildLoggerProvider returns a [log.LoggerProvider] which emits nothing.
// It is used when log export is disabled.
func BuildLoggerProvider() app.Builder[log.LoggerProvider] {
	return app.BuilderOf[log.LoggerProvider](lognoop.NewLoggerProvider())
}
