// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"
	"github.com/z5labs/fibonacci/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// DefaultShutdownTimeout bounds provider shutdown when [ShutdownTimeout] is unset.
const DefaultShutdownTimeout = 5 * time.Second

type runtimeOptions struct {
	shutdownTimeout config.Reader[time.Duration]
	closers         []app.Builder[io.Closer]
	logger          *slog.Logger
}

// RuntimeOption configures [BuildRuntime].
type RuntimeOption func(*runtimeOptions)

// ShutdownTimeout bounds the time spent shutting down all providers.
func ShutdownTimeout(d config.Reader[time.Duration]) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.shutdownTimeout = d
	}
}

// Closers registers transport resources shared by the exporters, e.g. a
// gRPC client connection. They are closed after every provider has shut down.
func Closers(bs ...app.Builder[io.Closer]) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.closers = append(ro.closers, bs...)
	}
}

// Logger sets the logger used to report background export errors.
func Logger(l *slog.Logger) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.logger = l
	}
}

type shutdowner interface {
	Shutdown(context.Context) error
}

// Runtime registers the telemetry providers as process wide globals,
// runs the wrapped [app.Runtime] and shuts the providers down once it returns.
type Runtime[
	T trace.TracerProvider,
	M metric.MeterProvider,
	L log.LoggerProvider,
	R app.Runtime,
] struct {
	textMapPropagator propagation.TextMapPropagator
	tracerProvider    T
	meterProvider     M
	loggerProvider    L
	runtime           R

	providers       []any
	shutdownTimeout time.Duration
	closers         []io.Closer
	log             *slog.Logger

	shutdownOnce sync.Once
	shutdownErr  error
}

// BuildRuntime returns a [Runtime] wrapping the runtime built by runtimeB.
// Failures building any provider are reported as a [ProviderInitError].
// Providers and closers built before a failure are shut down before the
// error is returned.
func BuildRuntime[
	T trace.TracerProvider,
	M metric.MeterProvider,
	L log.LoggerProvider,
	R app.Runtime,
](
	textMapPropagatorB app.Builder[propagation.TextMapPropagator],
	tracerProviderB app.Builder[T],
	meterProviderB app.Builder[M],
	loggerProviderB app.Builder[L],
	runtimeB app.Builder[R],
	opts ...RuntimeOption,
) app.Builder[*Runtime[T, M, L, R]] {
	return app.BuilderFunc[*Runtime[T, M, L, R]](func(ctx context.Context) (*Runtime[T, M, L, R], error) {
		ro := &runtimeOptions{
			logger: slog.Default(),
		}
		for _, opt := range opts {
			opt(ro)
		}

		shutdownTimeout, err := config.Read(ctx, config.Default(DefaultShutdownTimeout, orEmpty(ro.shutdownTimeout)))
		if err != nil {
			return nil, err
		}

		rt := &Runtime[T, M, L, R]{
			shutdownTimeout: shutdownTimeout,
			log:             ro.logger,
		}

		// Anything built before a failure is shut down again. Every closer
		// is built so transports shared with an already built exporter
		// are released too.
		built := 0
		abort := func(err error) (*Runtime[T, M, L, R], error) {
			for _, b := range ro.closers[built:] {
				c, cerr := app.TryBuild(ctx, b)
				if cerr == nil {
					rt.closers = append(rt.closers, c)
				}
			}
			serr := rt.Shutdown(ctx)
			if serr != nil {
				return nil, errors.Join(err, serr)
			}
			return nil, err
		}

		rt.textMapPropagator, err = app.TryBuild(ctx, textMapPropagatorB)
		if err != nil {
			return abort(ProviderInitError{Provider: "propagator", Cause: err})
		}
		rt.tracerProvider, err = app.TryBuild(ctx, tracerProviderB)
		if err != nil {
			return abort(ProviderInitError{Provider: "tracer", Cause: err})
		}
		rt.providers = append(rt.providers, rt.tracerProvider)

		rt.meterProvider, err = app.TryBuild(ctx, meterProviderB)
		if err != nil {
			return abort(ProviderInitError{Provider: "meter", Cause: err})
		}
		rt.providers = append(rt.providers, rt.meterProvider)

		rt.loggerProvider, err = app.TryBuild(ctx, loggerProviderB)
		if err != nil {
			return abort(ProviderInitError{Provider: "logger", Cause: err})
		}
		rt.providers = append(rt.providers, rt.loggerProvider)

		for _, b := range ro.closers {
			built++
			c, err := app.TryBuild(ctx, b)
			if err != nil {
				return abort(ProviderInitError{Provider: "exporter transport", Cause: err})
			}
			rt.closers = append(rt.closers, c)
		}

		rt.runtime, err = runtimeB.Build(ctx)
		if err != nil {
			return abort(err)
		}
		return rt, nil
	})
}

// Run implements the [app.Runtime] interface.
func (r *Runtime[T, M, L, R]) Run(ctx context.Context) (err error) {
	otel.SetTextMapPropagator(r.textMapPropagator)
	otel.SetTracerProvider(r.tracerProvider)
	otel.SetMeterProvider(r.meterProvider)
	global.SetLoggerProvider(r.loggerProvider)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		r.log.Warn("telemetry export failed", slogfield.Error(err))
	}))

	defer func() {
		err = errors.Join(err, r.Shutdown(ctx))
	}()

	return r.runtime.Run(ctx)
}

// Shutdown flushes and stops the tracer, meter and logger providers, in
// that order, and then closes the registered transports. It is bounded by
// the configured shutdown timeout and ignores cancellation of ctx so
// buffered telemetry still gets exported when the process is stopping.
// Only the first call does any work, later calls return the same result.
func (r *Runtime[T, M, L, R]) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		r.shutdownErr = r.shutdown(ctx)
	})
	return r.shutdownErr
}

func (r *Runtime[T, M, L, R]) shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.shutdownTimeout)
	defer cancel()

	var errs []error
	for _, p := range r.providers {
		sd, ok := p.(shutdowner)
		if !ok {
			continue
		}

		err := sd.Shutdown(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range r.closers {
		err := c.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return ShutdownTimeoutError{Timeout: r.shutdownTimeout, Cause: err}
	}
	return err
}

func orEmpty[T any](r config.Reader[T]) config.Reader[T] {
	if r == nil {
		return config.EmptyReader[T]()
	}
	return r
}
