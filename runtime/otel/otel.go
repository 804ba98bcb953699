// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"time"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"

	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// BuildTextMapPropagator returns a [propagation.TextMapPropagator] for
// W3C trace context and baggage.
func BuildTextMapPropagator() app.Builder[propagation.TextMapPropagator] {
	return app.BuilderOf[propagation.TextMapPropagator](propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// BuildSampler returns a parent based sampler which samples root spans
// with the given ratio. The ratio defaults to 1, sampling every trace.
func BuildSampler(ratio config.Reader[float64]) app.Builder[sdktrace.Sampler] {
	if ratio == nil {
		ratio = config.EmptyReader[float64]()
	}
	return app.BuilderFunc[sdktrace.Sampler](func(ctx context.Context) (sdktrace.Sampler, error) {
		r, err := config.Read(ctx, config.Default(1.0, ratio))
		if err != nil {
			return nil, err
		}

		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(r)), nil
	})
}

// BuildBatchSpanProcessor returns a [sdktrace.SpanProcessor] which exports
// ended spans in batches from a background goroutine. Ending a span never
// waits on the exporter.
func BuildBatchSpanProcessor[E sdktrace.SpanExporter](
	exporterB app.Builder[E],
	opts ...BatchSpanProcessorOption,
) app.Builder[sdktrace.SpanProcessor] {
	return app.BuilderFunc[sdktrace.SpanProcessor](func(ctx context.Context) (sdktrace.SpanProcessor, error) {
		o := &batchSpanProcessorOptions{}
		for _, opt := range opts {
			opt.applyBatchSpanProcessor(o)
		}

		var bspOpts []sdktrace.BatchSpanProcessorOption
		err := readInto(ctx, o.batchTimeout, func(d time.Duration) {
			bspOpts = append(bspOpts, sdktrace.WithBatchTimeout(d))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.exportTimeout, func(d time.Duration) {
			bspOpts = append(bspOpts, sdktrace.WithExportTimeout(d))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.maxQueueSize, func(n int) {
			bspOpts = append(bspOpts, sdktrace.WithMaxQueueSize(n))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.maxExportBatchSize, func(n int) {
			bspOpts = append(bspOpts, sdktrace.WithMaxExportBatchSize(n))
		})
		if err != nil {
			return nil, err
		}

		exporter, err := exporterB.Build(ctx)
		if err != nil {
			return nil, err
		}
		return sdktrace.NewBatchSpanProcessor(exporter, bspOpts...), nil
	})
}

// BuildTracerProvider returns a [sdktrace.TracerProvider].
func BuildTracerProvider[S sdktrace.Sampler, P sdktrace.SpanProcessor](
	resourceB app.Builder[*resource.Resource],
	samplerB app.Builder[S],
	spanProcessorB app.Builder[P],
) app.Builder[*sdktrace.TracerProvider] {
	return app.BuilderFunc[*sdktrace.TracerProvider](func(ctx context.Context) (*sdktrace.TracerProvider, error) {
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithResource(app.MustBuild(ctx, resourceB)),
			sdktrace.WithSampler(app.MustBuild(ctx, samplerB)),
			sdktrace.WithSpanProcessor(app.MustBuild(ctx, spanProcessorB)),
		)

		return tp, nil
	})
}

// BuildPeriodicReader returns a [sdkmetric.PeriodicReader] which collects
// and exports metrics on an interval from a background goroutine.
func BuildPeriodicReader[E sdkmetric.Exporter](
	exporterB app.Builder[E],
	opts ...PeriodicReaderOption,
) app.Builder[*sdkmetric.PeriodicReader] {
	return app.BuilderFunc[*sdkmetric.PeriodicReader](func(ctx context.Context) (*sdkmetric.PeriodicReader, error) {
		o := &periodicReaderOptions{}
		for _, opt := range opts {
			opt.applyPeriodicReader(o)
		}

		var prOpts []sdkmetric.PeriodicReaderOption
		err := readInto(ctx, o.exportInterval, func(d time.Duration) {
			prOpts = append(prOpts, sdkmetric.WithInterval(d))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.exportTimeout, func(d time.Duration) {
			prOpts = append(prOpts, sdkmetric.WithTimeout(d))
		})
		if err != nil {
			return nil, err
		}

		exporter, err := exporterB.Build(ctx)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exporter, prOpts...), nil
	})
}

// BuildMeterProvider returns a [sdkmetric.MeterProvider].
func BuildMeterProvider[R sdkmetric.Reader](
	resourceB app.Builder[*resource.Resource],
	readerB app.Builder[R],
) app.Builder[*sdkmetric.MeterProvider] {
	return app.BuilderFunc[*sdkmetric.MeterProvider](func(ctx context.Context) (*sdkmetric.MeterProvider, error) {
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(app.MustBuild(ctx, resourceB)),
			sdkmetric.WithReader(app.MustBuild(ctx, readerB)),
		)

		return mp, nil
	})
}

// BuildBatchLogProcessor returns a [sdklog.BatchProcessor] which exports
// log records in batches from a background goroutine.
func BuildBatchLogProcessor[E sdklog.Exporter](
	exporterB app.Builder[E],
	opts ...BatchLogProcessorOption,
) app.Builder[*sdklog.BatchProcessor] {
	return app.BuilderFunc[*sdklog.BatchProcessor](func(ctx context.Context) (*sdklog.BatchProcessor, error) {
		o := &batchLogProcessorOptions{}
		for _, opt := range opts {
			opt.applyBatchLogProcessor(o)
		}

		var bpOpts []sdklog.BatchProcessorOption
		err := readInto(ctx, o.exportInterval, func(d time.Duration) {
			bpOpts = append(bpOpts, sdklog.WithExportInterval(d))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.exportTimeout, func(d time.Duration) {
			bpOpts = append(bpOpts, sdklog.WithExportTimeout(d))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.maxQueueSize, func(n int) {
			bpOpts = append(bpOpts, sdklog.WithMaxQueueSize(n))
		})
		if err != nil {
			return nil, err
		}
		err = readInto(ctx, o.maxExportBatchSize, func(n int) {
			bpOpts = append(bpOpts, sdklog.WithExportMaxBatchSize(n))
		})
		if err != nil {
			return nil, err
		}

		exporter, err := exporterB.Build(ctx)
		if err != nil {
			return nil, err
		}
		return sdklog.NewBatchProcessor(exporter, bpOpts...), nil
	})
}

// BuildLoggerProvider returns a [sdklog.LoggerProvider].
func BuildLoggerProvider[P sdklog.Processor](
	resourceB app.Builder[*resource.Resource],
	processorB app.Builder[P],
) app.Builder[*sdklog.LoggerProvider] {
	return app.BuilderFunc[*sdklog.LoggerProvider](func(ctx context.Context) (*sdklog.LoggerProvider, error) {
		lp := sdklog.NewLoggerProvider(
			sdklog.WithResource(app.MustBuild(ctx, resourceB)),
			sdklog.WithProcessor(app.MustBuild(ctx, processorB)),
		)

		return lp, nil
	})
}

func readInto[T any](ctx context.Context, r config.Reader[T], f func(T)) error {
	if r == nil {
		return nil
	}

	val, err := r.Read(ctx)
	if err != nil {
		return err
	}
	if v, ok := val.Value(); ok {
		f(v)
	}
	return nil
}
