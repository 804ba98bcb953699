// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"context"

	"github.com/z5labs/fibonacci/config"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type exporterOptions struct {
	headers     config.Reader[map[string]string]
	temporality config.Reader[Temporality]
}

// ExporterOption configures the OTLP exporter builders.
type ExporterOption func(*exporterOptions)

// Headers sets additional headers sent with every export request,
// typically for authenticating with a vendor backend.
func Headers(r config.Reader[map[string]string]) ExporterOption {
	return func(eo *exporterOptions) {
		eo.headers = r
	}
}

// MetricTemporality sets the temporality preference of metric exporters.
// Span and log exporters ignore it.
func MetricTemporality(r config.Reader[Temporality]) ExporterOption {
	return func(eo *exporterOptions) {
		eo.temporality = r
	}
}

func newExporterOptions(opts []ExporterOption) *exporterOptions {
	eo := &exporterOptions{
		headers:     config.EmptyReader[map[string]string](),
		temporality: config.EmptyReader[Temporality](),
	}
	for _, opt := range opts {
		opt(eo)
	}
	return eo
}

func (eo *exporterOptions) readHeaders(ctx context.Context) (map[string]string, bool, error) {
	v, err := eo.headers.Read(ctx)
	if err != nil {
		return nil, false, err
	}
	h, ok := v.Value()
	return h, ok && len(h) > 0, nil
}

func (eo *exporterOptions) temporalitySelector(ctx context.Context) (sdkmetric.TemporalitySelector, error) {
	t, err := config.Read(ctx, config.Default(Cumulative, eo.temporality))
	if err != nil {
		return nil, err
	}
	return TemporalitySelector(t)
}
