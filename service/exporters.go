// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package service

import (
	"fmt"
	"io"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"
	"github.com/z5labs/fibonacci/runtime/otel/gcp"
	"github.com/z5labs/fibonacci/runtime/otel/noop"
	"github.com/z5labs/fibonacci/runtime/otel/otlp"
	"github.com/z5labs/fibonacci/runtime/otel/stdout"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

// UnknownExporterError is returned for an exporter or OTLP protocol
// which is not supported.
type UnknownExporterError struct {
	Exporter string
}

// Error implements the [error] interface.
func (e UnknownExporterError) Error() string {
	return fmt.Sprintf("unknown telemetry exporter: %q", e.Exporter)
}

// exporters holds the builders for every signal of the configured
// exporter. A nil builder means the exporter does not support the signal.
type exporters struct {
	span   app.Builder[sdktrace.SpanExporter]
	metric app.Builder[sdkmetric.Exporter]
	log    app.Builder[sdklog.Exporter]

	// conn is only set for OTLP over gRPC and must be closed after
	// every exporter has shut down.
	conn app.Builder[*grpc.ClientConn]
}

func selectExporters(cfg OTelConfig, stdoutW io.Writer) (exporters, error) {
	switch cfg.Exporter {
	case ExporterOTLP:
		return otlpExporters(cfg.OTLP)
	case ExporterStdout:
		w := app.BuilderOf(stdoutW)
		return exporters{
			span:   stdout.BuildSpanExporter(w),
			metric: stdout.BuildMetricExporter(w),
			log:    stdout.BuildLogExporter(w),
		}, nil
	case ExporterGCP:
		return exporters{
			span: spanExporter(gcp.BuildSpanExporter(nonZero(cfg.GCP.ProjectID))),
		}, nil
	case ExporterNone:
		return exporters{
			span: noop.BuildSpanExporter(),
		}, nil
	default:
		return exporters{}, UnknownExporterError{Exporter: string(cfg.Exporter)}
	}
}

func otlpExporters(cfg OTLPConfig) (exporters, error) {
	tlsB := app.MemoizeBuilder(otlp.BuildTLSConfig(
		nonZero(cfg.TLS),
		nonZero(cfg.CAFile),
	))

	opts := []otlp.ExporterOption{
		otlp.Headers(config.ReaderOf(cfg.Headers)),
		otlp.MetricTemporality(nonZero(cfg.Temporality)),
	}

	switch cfg.Protocol {
	case "", ProtocolGRPC:
		connB := otlp.BuildGrpcConn(nonZero(cfg.Endpoint), tlsB)
		return exporters{
			span:   spanExporter(otlp.BuildGrpcSpanExporter(connB, opts...)),
			metric: metricExporter(otlp.BuildGrpcMetricExporter(connB, opts...)),
			log:    logExporter(otlp.BuildGrpcLogExporter(connB, opts...)),
			conn:   connB,
		}, nil
	case ProtocolHTTP:
		return exporters{
			span:   spanExporter(otlp.BuildHttpSpanExporter(nonZero(cfg.Endpoint), tlsB, opts...)),
			metric: metricExporter(otlp.BuildHttpMetricExporter(nonZero(cfg.Endpoint), tlsB, opts...)),
			log:    logExporter(otlp.BuildHttpLogExporter(nonZero(cfg.Endpoint), tlsB, opts...)),
		}, nil
	default:
		return exporters{}, UnknownExporterError{Exporter: "otlp/" + string(cfg.Protocol)}
	}
}

func spanExporter[E sdktrace.SpanExporter](b app.Builder[E]) app.Builder[sdktrace.SpanExporter] {
	return app.Map(b, func(e E) (sdktrace.SpanExporter, error) {
		return e, nil
	})
}

func metricExporter[E sdkmetric.Exporter](b app.Builder[E]) app.Builder[sdkmetric.Exporter] {
	return app.Map(b, func(e E) (sdkmetric.Exporter, error) {
		return e, nil
	})
}

func logExporter[E sdklog.Exporter](b app.Builder[E]) app.Builder[sdklog.Exporter] {
	return app.Map(b, func(e E) (sdklog.Exporter, error) {
		return e, nil
	})
}

