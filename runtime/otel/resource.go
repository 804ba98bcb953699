// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"log/slog"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"
	"github.com/z5labs/fibonacci/slogfield"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// DetectorFunc is a functional implementation of the [resource.Detector] interface.
type DetectorFunc func(context.Context) (*resource.Resource, error)

// Detect implements the [resource.Detector] interface.
func (f DetectorFunc) Detect(ctx context.Context) (*resource.Resource, error) {
	return f(ctx)
}

// BuildResource returns a memoized [app.Builder] which runs every detector
// in order and merges their results with [MergeResources]. A failing
// detector is logged and contributes no attributes.
func BuildResource(detectors ...resource.Detector) app.Builder[*resource.Resource] {
	return app.MemoizeBuilder(app.BuilderFunc[*resource.Resource](func(ctx context.Context) (*resource.Resource, error) {
		rs := make([]*resource.Resource, 0, len(detectors))
		for _, d := range detectors {
			r, err := d.Detect(ctx)
			if err != nil {
				slog.Default().WarnContext(
					ctx,
					"resource detection failed",
					slogfield.Error(err),
				)
				continue
			}
			rs = append(rs, r)
		}
		return MergeResources(rs...), nil
	}))
}

// MergeResources merges the attributes of every resource in order. When
// a key is present more than once the last value wins. Schema URLs of the
// inputs are dropped and the result carries the semconv schema URL used by
// this package, so merging never fails on conflicting schemas.
func MergeResources(rs ...*resource.Resource) *resource.Resource {
	var attrs []attribute.KeyValue
	for _, r := range rs {
		attrs = append(attrs, r.Attributes()...)
	}

	// attribute sets keep the last value for duplicate keys
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// TelemetrySDK detects the telemetry.sdk.* attributes.
func TelemetrySDK() resource.Detector {
	return DetectorFunc(func(ctx context.Context) (*resource.Resource, error) {
		return resource.New(ctx, resource.WithTelemetrySDK())
	})
}

// Host detects the host.name attribute.
func Host() resource.Detector {
	return DetectorFunc(func(ctx context.Context) (*resource.Resource, error) {
		return resource.New(ctx, resource.WithHost())
	})
}

// Environment detects attributes from the OTEL_RESOURCE_ATTRIBUTES and
// OTEL_SERVICE_NAME environment variables.
func Environment() resource.Detector {
	return DetectorFunc(func(ctx context.Context) (*resource.Resource, error) {
		return resource.New(ctx, resource.WithFromEnv())
	})
}

// GoogleCloud detects attributes describing the Google Cloud platform
// the process runs on, e.g. GCE, GKE or Cloud Run.
func GoogleCloud() resource.Detector {
	return gcp.NewDetector()
}

// Service detects the service.name, service.version and service.instance.id
// attributes from the given readers. Unset name and version readers
// contribute nothing. The instance id defaults to a random UUID.
func Service(name, version, instanceID config.Reader[string]) resource.Detector {
	return DetectorFunc(func(ctx context.Context) (*resource.Resource, error) {
		var attrs []attribute.KeyValue

		n, err := readOptional(ctx, name)
		if err != nil {
			return nil, err
		}
		if n != "" {
			attrs = append(attrs, semconv.ServiceName(n))
		}

		v, err := readOptional(ctx, version)
		if err != nil {
			return nil, err
		}
		if v != "" {
			attrs = append(attrs, semconv.ServiceVersion(v))
		}

		id, err := readOptional(ctx, instanceID)
		if err != nil {
			return nil, err
		}
		if id == "" {
			id = uuid.NewString()
		}
		attrs = append(attrs, semconv.ServiceInstanceID(id))

		return resource.NewWithAttributes(semconv.SchemaURL, attrs...), nil
	})
}

func readOptional(ctx context.Context, r config.Reader[string]) (string, error) {
	if r == nil {
		return "", nil
	}

	val, err := r.Read(ctx)
	if err != nil {
		return "", err
	}

	s, _ := val.Value()
	return s, nil
}
