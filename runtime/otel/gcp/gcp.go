// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gcp

import (
	"context"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"

	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"google.golang.org/api/option"
)

type options struct {
	clientOpts []option.ClientOption
}

// Option configures [BuildSpanExporter].
type Option func(*options)

// ClientOptions are passed through to the underlying Cloud Trace client.
func ClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// BuildSpanExporter returns an [app.Builder] for a Cloud Trace span exporter.
//
// The project falls back to GOOGLE_CLOUD_PROJECT and then to the project
// of the application default credentials.
func BuildSpanExporter(projectID config.Reader[string], opts ...Option) app.Builder[*texporter.Exporter] {
	if projectID == nil {
		projectID = config.EmptyReader[string]()
	}
	projectID = config.Or(projectID, config.Env("GOOGLE_CLOUD_PROJECT"))

	return app.BuilderFunc[*texporter.Exporter](func(ctx context.Context) (*texporter.Exporter, error) {
		o := &options{}
		for _, opt := range opts {
			opt(o)
		}

		var expOpts []texporter.Option
		v, err := projectID.Read(ctx)
		if err != nil {
			return nil, err
		}
		if id, ok := v.Value(); ok && id != "" {
			expOpts = append(expOpts, texporter.WithProjectID(id))
		}
		if len(o.clientOpts) > 0 {
			expOpts = append(expOpts, texporter.WithTraceClientOptions(o.clientOpts))
		}

		return texporter.New(expOpts...)
	})
}
