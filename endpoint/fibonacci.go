// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/z5labs/fibonacci"
	"github.com/z5labs/fibonacci/slogfield"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName identifies the tracer and meter of this package.
const InstrumentationName = "github.com/z5labs/fibonacci/endpoint"

// SpanName is the name of the span recorded for each computation.
const SpanName = "fibonacci"

// AttrValidN is recorded on the invocation counter.
const AttrValidN = attribute.Key("fibonacci.valid.n")

type options struct {
	tracer trace.Tracer
	meter  metric.Meter
	log    *slog.Logger
}

// Option configures [NewFibonacci].
type Option func(*options)

// Tracer sets the tracer used to record the computation span.
func Tracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// Meter sets the meter used to create the invocation counter.
func Meter(m metric.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// Logger sets the logger each computation is logged to.
func Logger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Fibonacci is an [http.Handler] computing the n-th Fibonacci term for
// GET requests carrying an integer query parameter n.
type Fibonacci struct {
	tracer      trace.Tracer
	invocations metric.Int64Counter
	log         *slog.Logger

	compute func(int) (int64, error)
}

// NewFibonacci returns a [Fibonacci] handler. Without a [Tracer] or [Meter]
// nothing is recorded.
func NewFibonacci(opts ...Option) (*Fibonacci, error) {
	o := &options{
		tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		meter:  metricnoop.NewMeterProvider().Meter(InstrumentationName),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	invocations, err := o.meter.Int64Counter(
		"fibonacci.invocations",
		metric.WithDescription("Measures the number of times the fibonacci method is invoked."),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, err
	}

	f := &Fibonacci{
		tracer:      o.tracer,
		invocations: invocations,
		log:         o.log,
		compute:     fibonacci.Compute,
	}
	return f, nil
}

// ServeHTTP implements the [http.Handler] interface.
func (f *Fibonacci) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, Rejected{Message: "method not allowed"})
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Rejected{Message: "n must be an integer"})
		return
	}

	writeJSON(w, http.StatusOK, f.handle(r.Context(), n))
}

func (f *Fibonacci) handle(ctx context.Context, n int) Response {
	ctx, span := f.tracer.Start(ctx, SpanName, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	defer recordPanic(span)

	result, err := f.compute(n)
	recordOutcome(span, n, result, err)

	f.invocations.Add(ctx, 1, metric.WithAttributes(AttrValidN.Bool(err == nil)))

	if err != nil {
		f.log.InfoContext(
			ctx,
			"rejected fibonacci request",
			slogfield.Int(string(AttrN), n),
			slogfield.Error(err),
		)
		return Rejected{Message: err.Error()}
	}

	f.log.InfoContext(
		ctx,
		"computed fibonacci",
		slogfield.Int(string(AttrN), n),
		slogfield.Int64(string(AttrResult), result),
	)
	return Computed{N: n, Result: result}
}

// Route registers h on mux under pattern, tagging the transport span
// with the route.
func Route(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, otelhttp.WithRouteTag(pattern, h))
}
