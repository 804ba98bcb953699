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

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultGrpcTarget is the collector address used when neither the
// configured target nor OTEL_EXPORTER_OTLP_ENDPOINT is set.
const DefaultGrpcTarget = "localhost:4317"

// BuildGrpcConn returns a memoized [app.Builder] for the [grpc.ClientConn]
// shared by the gRPC exporters. Creating the client does not dial, so an
// unreachable collector never fails the build.
//
// target falls back to OTEL_EXPORTER_OTLP_ENDPOINT and then to
// [DefaultGrpcTarget]. An http or https scheme is removed from the target
// and https always selects TLS.
func BuildGrpcConn(target config.Reader[string], tlsB app.Builder[*tls.Config]) app.Builder[*grpc.ClientConn] {
	if target == nil {
		target = config.EmptyReader[string]()
	}
	if tlsB == nil {
		tlsB = app.BuilderOf[*tls.Config](nil)
	}
	endpoint := config.Or(target, config.Env("OTEL_EXPORTER_OTLP_ENDPOINT"))

	return app.MemoizeBuilder(app.BuilderFunc[*grpc.ClientConn](func(ctx context.Context) (*grpc.ClientConn, error) {
		t, creds, err := grpcDialTarget(ctx, endpoint, tlsB)
		if err != nil {
			return nil, err
		}
		return grpc.NewClient(t, grpc.WithTransportCredentials(creds))
	}))
}

func grpcDialTarget(
	ctx context.Context,
	endpoint config.Reader[string],
	tlsB app.Builder[*tls.Config],
) (string, credentials.TransportCredentials, error) {
	e, err := config.Read(ctx, config.Default("", endpoint))
	if err != nil {
		return "", nil, err
	}

	tc, err := tlsB.Build(ctx)
	if err != nil {
		return "", nil, err
	}
	tc, err = endpointTLS(e, tc)
	if err != nil {
		return "", nil, err
	}

	t := grpcTarget(e)
	if t == "" {
		t = DefaultGrpcTarget
	}
	if tc == nil {
		return t, insecure.NewCredentials(), nil
	}
	return t, credentials.NewTLS(tc), nil
}

// grpcTarget turns an OTLP endpoint URL into a gRPC target. Targets using
// a gRPC resolver scheme, e.g. dns:///host:4317, are kept as is.
func grpcTarget(endpoint string) string {
	if !hasScheme(endpoint, "http") && !hasScheme(endpoint, "https") {
		return endpoint
	}
	_, rest, _ := strings.Cut(endpoint, "://")
	return strings.TrimSuffix(rest, "/")
}

// BuildGrpcSpanExporter returns an [app.Builder] for an OTLP span exporter
// sending over the given gRPC connection.
func BuildGrpcSpanExporter(grpcConnB app.Builder[*grpc.ClientConn], opts ...ExporterOption) app.Builder[*otlptrace.Exporter] {
	eo := newExporterOptions(opts)
	return app.BuilderFunc[*otlptrace.Exporter](func(ctx context.Context) (*otlptrace.Exporter, error) {
		expOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithGRPCConn(app.MustBuild(ctx, grpcConnB)),
		}

		headers, ok, err := eo.readHeaders(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			expOpts = append(expOpts, otlptracegrpc.WithHeaders(headers))
		}

		return otlptracegrpc.New(ctx, expOpts...)
	})
}

// BuildGrpcMetricExporter returns an [app.Builder] for an OTLP metric
// exporter sending over the given gRPC connection.
func BuildGrpcMetricExporter(grpcConnB app.Builder[*grpc.ClientConn], opts ...ExporterOption) app.Builder[*otlpmetricgrpc.Exporter] {
	eo := newExporterOptions(opts)
	return app.BuilderFunc[*otlpmetricgrpc.Exporter](func(ctx context.Context) (*otlpmetricgrpc.Exporter, error) {
		selector, err := eo.temporalitySelector(ctx)
		if err != nil {
			return nil, err
		}

		expOpts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithGRPCConn(app.MustBuild(ctx, grpcConnB)),
			otlpmetricgrpc.WithTemporalitySelector(selector),
		}

		headers, ok, err := eo.readHeaders(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			expOpts = append(expOpts, otlpmetricgrpc.WithHeaders(headers))
		}

		return otlpmetricgrpc.New(ctx, expOpts...)
	})
}

// BuildGrpcLogExporter returns an [app.Builder] for an OTLP log exporter
// sending over the given gRPC connection.
func BuildGrpcLogExporter(grpcConnB app.Builder[*grpc.ClientConn], opts ...ExporterOption) app.Builder[*otlploggrpc.Exporter] {
	eo := newExporterOptions(opts)
	return app.BuilderFunc[*otlploggrpc.Exporter](func(ctx context.Context) (*otlploggrpc.Exporter, error) {
		expOpts := []otlploggrpc.Option{
			otlploggrpc.WithGRPCConn(app.MustBuild(ctx, grpcConnB)),
		}

		headers, ok, err := eo.readHeaders(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			expOpts = append(expOpts, otlploggrpc.WithHeaders(headers))
		}

		return otlploggrpc.New(ctx, expOpts...)
	})
}
