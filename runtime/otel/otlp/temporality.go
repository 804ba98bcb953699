// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Temporality names a metric temporality preference.
type Temporality string

// Supported temporality preferences.
const (
	Cumulative Temporality = "cumulative"
	Delta      Temporality = "delta"
	LowMemory  Temporality = "lowmemory"
)

// UnknownTemporalityError is returned for an unsupported [Temporality].
type UnknownTemporalityError struct {
	Temporality Temporality
}

// Error implements the [error] interface.
func (e UnknownTemporalityError) Error() string {
	return fmt.Sprintf("unknown metric temporality: %q", string(e.Temporality))
}

// TemporalitySelector returns the [sdkmetric.TemporalitySelector] for t.
//
// Delta reports counters and histograms as deltas while up down counters
// stay cumulative, which is what delta based backends such as New Relic
// expect. LowMemory only reports synchronous counters and histograms as deltas.
func TemporalitySelector(t Temporality) (sdkmetric.TemporalitySelector, error) {
	switch t {
	case "", Cumulative:
		return sdkmetric.DefaultTemporalitySelector, nil
	case Delta:
		return deltaSelector, nil
	case LowMemory:
		return lowMemorySelector, nil
	default:
		return nil, UnknownTemporalityError{Temporality: t}
	}
}

func deltaSelector(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	switch kind {
	case sdkmetric.InstrumentKindCounter,
		sdkmetric.InstrumentKindObservableCounter,
		sdkmetric.InstrumentKindHistogram:
		return metricdata.DeltaTemporality
	default:
		return metricdata.CumulativeTemporality
	}
}

func lowMemorySelector(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	switch kind {
	case sdkmetric.InstrumentKindCounter,
		sdkmetric.InstrumentKindHistogram:
		return metricdata.DeltaTemporality
	default:
		return metricdata.CumulativeTemporality
	}
}
