// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

// httpTarget holds the resolved endpoint and transport security shared
// by the HTTP exporters. An empty endpoint leaves endpoint resolution to
// the exporter, which honours the OTEL_EXPORTER_OTLP_* environment variables.
// A nil tls config means plaintext and is never chosen for an https endpoint.
type httpTarget struct {
	endpoint string
	isURL    bool
	tls      *tls.Config
	headers  map[string]string
}

func readHttpTarget(
	ctx context.Context,
	signal string,
	endpoint config.Reader[string],
	tlsB app.Builder[*tls.Config],
	eo *exporterOptions,
) (httpTarget, error) {
	var t httpTarget
	if endpoint != nil {
		v, err := endpoint.Read(ctx)
		if err != nil {
			return t, err
		}
		t.endpoint, _ = v.Value()
		t.isURL = strings.Contains(t.endpoint, "://")
	}

	if tlsB != nil {
		tc, err := tlsB.Build(ctx)
		if err != nil {
			return t, err
		}
		t.tls = tc
	}

	effective := t.endpoint
	if effective == "" {
		effective = config.MustOr(ctx, "", config.Or(
			config.Env("OTEL_EXPORTER_OTLP_"+signal+"_ENDPOINT"),
			config.Env("OTEL_EXPORTER_OTLP_ENDPOINT"),
		))
	}
	tc, err := endpointTLS(effective, t.tls)
	if err != nil {
		return t, err
	}
	t.tls = tc

	headers, ok, err := eo.readHeaders(ctx)
	if err != nil {
		return t, err
	}
	if ok {
		t.headers = headers
	}
	return t, nil
}

// BuildHttpSpanExporter returns an [app.Builder] for an OTLP span exporter
// using HTTP transport. endpoint may be a host:port pair or a full URL.
func BuildHttpSpanExporter(
	endpoint config.Reader[string],
	tlsB app.Builder[*tls.Config],
	opts ...ExporterOption,
) app.Builder[*otlptrace.Exporter] {
	eo := newExporterOptions(opts)
	return app.BuilderFunc[*otlptrace.Exporter](func(ctx context.Context) (*otlptrace.Exporter, error) {
		t, err := readHttpTarget(ctx, "TRACES", endpoint, tlsB, eo)
		if err != nil {
			return nil, err
		}

		var expOpts []otlptracehttp.Option
		switch {
		case t.endpoint == "":
		case t.isURL:
			expOpts = append(expOpts, otlptracehttp.WithEndpointURL(t.endpoint))
		default:
			expOpts = append(expOpts, otlptracehttp.WithEndpoint(t.endpoint))
		}
		if t.tls == nil {
			expOpts = append(expOpts, otlptracehttp.WithInsecure())
		} else {
			expOpts = append(expOpts, otlptracehttp.WithTLSClientConfig(t.tls))
		}
		if t.headers != nil {
			expOpts = append(expOpts, otlptracehttp.WithHeaders(t.headers))
		}

		return otlptracehttp.New(ctx, expOpts...)
	})
}

// BuildHttpMetricExporter returns an [app.Builder] for an OTLP metric
// exporter using HTTP transport.
func BuildHttpMetricExporter(
	endpoint config.Reader[string],
	tlsB app.Builder[*tls.Config],
	opts ...ExporterOption,
) app.Builder[*otlpmetrichttp.Exporter] {
	eo := newExporterOptions(opts)
	return app.BuilderFunc[*otlpmetrichttp.Exporter](func(ctx context.Context) (*otlpmetrichttp.Exporter, error) {
		t, err := readHttpTarget(ctx, "METRICS", endpoint, tlsB, eo)
		if err != nil {
			return nil, err
		}

		selector, err := eo.temporalitySelector(ctx)
		if err != nil {
			return nil, err
		}

		expOpts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithTemporalitySelector(selector),
		}
		switch {
		case t.endpoint == "":
		case t.isURL:
			expOpts = append(expOpts, otlpmetrichttp.WithEndpointURL(t.endpoint))
		default:
			expOpts = append(expOpts, otlpmetrichttp.WithEndpoint(t.endpoint))
		}
		if t.tls == nil {
			expOpts = append(expOpts, otlpmetrichttp.WithInsecure())
		} else {
			expOpts = append(expOpts, otlpmetrichttp.WithTLSClientConfig(t.tls))
		}
		if t.headers != nil {
			expOpts = append(expOpts, otlpmetrichttp.WithHeaders(t.headers))
		}

		return otlpmetrichttp.New(ctx, expOpts...)
	})
}

// BuildHttpLogExporter returns an [app.Builder] for an OTLP log exporter
// using HTTP transport.
func BuildHttpLogExporter(
	endpoint config.Reader[string],
	tlsB app.Builder[*tls.Config],
	opts ...ExporterOption,
) app.Builder[*otlploghttp.Exporter] {
	eo := newExporterOptions(opts)
	return app.BuilderFunc[*otlploghttp.Exporter](func(ctx context.Context) (*otlploghttp.Exporter, error) {
		t, err := readHttpTarget(ctx, "LOGS", endpoint, tlsB, eo)
		if err != nil {
			return nil, err
		}

		var expOpts []otlploghttp.Option
		switch {
		case t.endpoint == "":
		case t.isURL:
			expOpts = append(expOpts, otlploghttp.WithEndpointURL(t.endpoint))
		default:
			expOpts = append(expOpts, otlploghttp.WithEndpoint(t.endpoint))
		}
		if t.tls == nil {
			expOpts = append(expOpts, otlploghttp.WithInsecure())
		} else {
			expOpts = append(expOpts, otlploghttp.WithTLSClientConfig(t.tls))
		}
		if t.headers != nil {
			expOpts = append(expOpts, otlploghttp.WithHeaders(t.headers))
		}

		return otlploghttp.New(ctx, expOpts...)
	})
}
