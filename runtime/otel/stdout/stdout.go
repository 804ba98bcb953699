// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stdout

import (
	"context"
	"io"

	"github.com/z5labs/fibonacci/app"

	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BuildSpanExporter returns a span exporter writing to the writer built by writerB.
func BuildSpanExporter[W io.Writer](writerB app.Builder[W]) app.Builder[sdktrace.SpanExporter] {
	return app.BuilderFunc[sdktrace.SpanExporter](func(ctx context.Context) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(
			stdouttrace.WithWriter(app.MustBuild(ctx, writerB)),
			stdouttrace.WithPrettyPrint(),
		)
	})
}

// BuildMetricExporter returns a metric exporter writing to the writer built by writerB.
func BuildMetricExporter[W io.Writer](writerB app.Builder[W]) app.Builder[sdkmetric.Exporter] {
	return app.BuilderFunc[sdkmetric.Exporter](func(ctx context.Context) (sdkmetric.Exporter, error) {
		return stdoutmetric.New(
			stdoutmetric.WithWriter(app.MustBuild(ctx, writerB)),
			stdoutmetric.WithPrettyPrint(),
		)
	})
}

// BuildLogExporter returns a log exporter writing to the writer built by writerB.
func BuildLogExporter[W io.Writer](writerB app.Builder[W]) app.Builder[sdklog.Exporter] {
	return app.BuilderFunc[sdklog.Exporter](func(ctx context.Context) (sdklog.Exporter, error) {
		return stdoutlog.New(
			stdoutlog.WithWriter(app.MustBuild(ctx, writerB)),
			stdoutlog.WithPrettyPrint(),
		)
	})
}
