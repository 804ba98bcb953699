// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package service wires the Fibonacci endpoint, the HTTP server and the
// telemetry pipeline into a single runnable [app.Runtime].
package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"os"
	"slices"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"
	"github.com/z5labs/fibonacci/endpoint"
	"github.com/z5labs/fibonacci/logging"
	rthttp "github.com/z5labs/fibonacci/runtime/http"
	"github.com/z5labs/fibonacci/runtime/otel"
	"github.com/z5labs/fibonacci/runtime/otel/noop"
	"github.com/z5labs/fibonacci/slogfield"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

// InstrumentationName identifies the logger of the service.
const InstrumentationName = "github.com/z5labs/fibonacci"

type options struct {
	logOut       io.Writer
	stdoutOut    io.Writer
	spanExporter sdktrace.SpanExporter
	listener     net.Listener
}

// Option configures [Build].
type Option func(*options)

// LogOutput sets where log records are written. Defaults to stderr.
func LogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOut = w
	}
}

// StdoutExporterOutput sets where the stdout exporter writes telemetry.
// Defaults to stdout.
func StdoutExporterOutput(w io.Writer) Option {
	return func(o *options) {
		o.stdoutOut = w
	}
}

// SpanExporter replaces the span exporter selected by the config.
func SpanExporter(e sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.spanExporter = e
	}
}

// Listener serves on ln instead of listening on the configured address.
func Listener(ln net.Listener) Option {
	return func(o *options) {
		o.listener = ln
	}
}

type (
	tracerProvider = *sdktrace.TracerProvider
	meterProvider  = metric.MeterProvider
	loggerProvider = log.LoggerProvider
)

// Build returns the [app.Builder] for the whole service.
//
// Startup fails with an [otel.ProviderInitError] if the telemetry
// pipeline can not be constructed. Nothing is served in that case.
func Build(cfg Config, opts ...Option) app.Builder[app.Runtime] {
	return app.BuilderFunc[app.Runtime](func(ctx context.Context) (app.Runtime, error) {
		o := &options{
			logOut:    os.Stderr,
			stdoutOut: os.Stdout,
		}
		for _, opt := range opts {
			opt(o)
		}

		baseLog := logging.New(o.logOut, cfg.Logging, logging.MaskAttrs("headers"))
		slog.SetDefault(baseLog)

		ratio, err := config.Read(ctx, samplingRatio(cfg.OTel))
		if err != nil {
			return nil, otel.ProviderInitError{Provider: "tracer", Cause: err}
		}

		baseLog.InfoContext(
			ctx,
			"configuring telemetry",
			slogfield.String("exporter", string(cfg.OTel.Exporter)),
			slogfield.String("otlp_protocol", string(cfg.OTel.OTLP.Protocol)),
			slogfield.String("otlp_endpoint", cfg.OTel.OTLP.Endpoint),
			slogfield.Strings("otlp_header_names", slices.Sorted(maps.Keys(cfg.OTel.OTLP.Headers))),
			slog.Any("headers", cfg.OTel.OTLP.Headers),
			slogfield.Float64("sampling_ratio", ratio),
			slogfield.Bool("metrics", cfg.OTel.Metrics.Enabled),
			slogfield.Bool("logs", cfg.OTel.Logs.Enabled),
		)

		exps, err := selectExporters(cfg.OTel, o.stdoutOut)
		if err != nil {
			return nil, otel.ProviderInitError{Provider: "tracer", Cause: err}
		}
		if o.spanExporter != nil {
			exps.span = app.BuilderOf(o.spanExporter)
		}

		resourceB := buildResource(cfg.OTel)
		tpB := app.MemoizeBuilder(buildTracerProvider(cfg.OTel, ratio, resourceB, exps))
		mpB := app.MemoizeBuilder(buildMeterProvider(cfg.OTel, resourceB, exps))
		lpB := app.MemoizeBuilder(buildLoggerProvider(cfg.OTel, resourceB, exps))

		var runtimeB app.Builder[rthttp.Runtime] = app.BuilderFunc[rthttp.Runtime](func(ctx context.Context) (rthttp.Runtime, error) {
			tp := app.MustBuild(ctx, tpB)
			mp := app.MustBuild(ctx, mpB)

			logger := baseLog
			if cfg.OTel.Logs.Enabled {
				logger = logging.New(
					o.logOut,
					cfg.Logging,
					logging.MaskAttrs("headers"),
					logging.LoggerProvider(InstrumentationName, app.MustBuild(ctx, lpB)),
				)
				slog.SetDefault(logger)
			}

			var handlerB app.Builder[http.Handler] = app.BuilderFunc[http.Handler](func(ctx context.Context) (http.Handler, error) {
				h, err := endpoint.NewFibonacci(
					endpoint.Tracer(tp.Tracer(endpoint.InstrumentationName)),
					endpoint.Meter(mp.Meter(endpoint.InstrumentationName)),
					endpoint.Logger(logger),
				)
				if err != nil {
					return nil, err
				}

				mux := http.NewServeMux()
				endpoint.Route(mux, "/fibonacci", h)
				return mux, nil
			})

			listenerB := rthttp.BuildTCPListener(nonZero(cfg.HTTP.Addr))
			if o.listener != nil {
				listenerB = app.BuilderOf(o.listener)
			}

			return rthttp.Build(
				listenerB,
				handlerB,
				rthttp.ReadTimeout(nonZero(cfg.HTTP.ReadTimeout)),
				rthttp.ReadHeaderTimeout(nonZero(cfg.HTTP.ReadHeaderTimeout)),
				rthttp.WriteTimeout(nonZero(cfg.HTTP.WriteTimeout)),
				rthttp.IdleTimeout(nonZero(cfg.HTTP.IdleTimeout)),
				rthttp.DrainTimeout(nonZero(cfg.HTTP.DrainTimeout)),
				rthttp.Logger(logger),
				rthttp.Instrumentation(
					otelhttp.WithTracerProvider(tp),
					otelhttp.WithMeterProvider(mp),
					otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
				),
			).Build(ctx)
		})

		var runtimeOpts []otel.RuntimeOption
		runtimeOpts = append(runtimeOpts,
			otel.ShutdownTimeout(nonZero(cfg.OTel.ShutdownTimeout)),
			otel.Logger(baseLog),
		)
		if exps.conn != nil {
			runtimeOpts = append(runtimeOpts, otel.Closers(app.Map(exps.conn, func(cc *grpc.ClientConn) (io.Closer, error) {
				return cc, nil
			})))
		}

		rt, err := app.TryBuild(ctx, otel.BuildRuntime(
			otel.BuildTextMapPropagator(),
			tpB,
			mpB,
			lpB,
			runtimeB,
			runtimeOpts...,
		))
		if err != nil {
			return nil, err
		}
		return rt, nil
	})
}

func buildResource(cfg OTelConfig) app.Builder[*resource.Resource] {
	detectors := []resource.Detector{
		otel.TelemetrySDK(),
		otel.Host(),
	}
	if cfg.Resource.GCP {
		detectors = append(detectors, otel.GoogleCloud())
	}
	detectors = append(
		detectors,
		otel.Service(
			nonZero(cfg.ServiceName),
			nonZero(cfg.ServiceVersion),
			nonZero(cfg.ServiceInstanceID),
		),
		otel.Environment(),
	)
	return otel.BuildResource(detectors...)
}

// samplingRatio prefers OTEL_TRACES_SAMPLER_ARG over the configured ratio.
func samplingRatio(cfg OTelConfig) config.Reader[float64] {
	return config.Or(
		config.Float64FromString(config.Env("OTEL_TRACES_SAMPLER_ARG")),
		config.ReaderOf(cfg.SamplingRatio),
	)
}

func buildTracerProvider(cfg OTelConfig, ratio float64, resourceB app.Builder[*resource.Resource], exps exporters) app.Builder[tracerProvider] {
	return otel.BuildTracerProvider(
		resourceB,
		otel.BuildSampler(config.ReaderOf(ratio)),
		otel.BuildBatchSpanProcessor(
			exps.span,
			otel.BatchTimeout(nonZero(cfg.Batch.Timeout)),
			otel.ExportTimeout(nonZero(cfg.Batch.ExportTimeout)),
			otel.MaxQueueSize(nonZero(cfg.Batch.MaxQueueSize)),
			otel.MaxExportBatchSize(nonZero(cfg.Batch.MaxExportBatchSize)),
		),
	)
}

func buildMeterProvider(cfg OTelConfig, resourceB app.Builder[*resource.Resource], exps exporters) app.Builder[meterProvider] {
	if !cfg.Metrics.Enabled || exps.metric == nil {
		return noop.BuildMeterProvider()
	}

	mpB := otel.BuildMeterProvider(
		resourceB,
		otel.BuildPeriodicReader(
			exps.metric,
			otel.ExportInterval(nonZero(cfg.Metrics.Interval)),
			otel.ExportTimeout(nonZero(cfg.Batch.ExportTimeout)),
		),
	)
	return app.Map(mpB, func(mp *sdkmetric.MeterProvider) (meterProvider, error) {
		return mp, nil
	})
}

func buildLoggerProvider(cfg OTelConfig, resourceB app.Builder[*resource.Resource], exps exporters) app.Builder[loggerProvider] {
	if !cfg.Logs.Enabled || exps.log == nil {
		return noop.BuildLoggerProvider()
	}

	lpB := otel.BuildLoggerProvider(
		resourceB,
		otel.BuildBatchLogProcessor(
			exps.log,
			otel.ExportTimeout(nonZero(cfg.Batch.ExportTimeout)),
			otel.MaxQueueSize(nonZero(cfg.Batch.MaxQueueSize)),
			otel.MaxExportBatchSize(nonZero(cfg.Batch.MaxExportBatchSize)),
		),
	)
	return app.Map(lpB, func(lp *sdklog.LoggerProvider) (loggerProvider, error) {
		return lp, nil
	})
}
