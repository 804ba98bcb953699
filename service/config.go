// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/z5labs/fibonacci/config"
	"github.com/z5labs/fibonacci/logging"
	"github.com/z5labs/fibonacci/runtime/otel/otlp"
)

// EnvPrefix is the prefix of environment variables overriding the config,
// e.g. FIBONACCI_OTEL__OTLP__ENDPOINT sets otel.otlp.endpoint.
const EnvPrefix = "FIBONACCI_"

//go:embed default_config.yaml
var defaultConfig []byte

// Exporter selects where telemetry is sent.
type Exporter string

// Supported exporters.
const (
	ExporterOTLP   Exporter = "otlp"
	ExporterStdout Exporter = "stdout"
	ExporterGCP    Exporter = "gcp"
	ExporterNone   Exporter = "none"
)

// Protocol selects the OTLP transport.
type Protocol string

// Supported OTLP transports.
const (
	ProtocolGRPC Protocol = "grpc"
	ProtocolHTTP Protocol = "http"
)

// Config is the complete service configuration.
type Config struct {
	HTTP    HTTPConfig     `config:"http"`
	Logging logging.Config `config:"logging"`
	OTel    OTelConfig     `config:"otel"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr              string        `config:"addr"`
	ReadTimeout       time.Duration `config:"read_timeout"`
	ReadHeaderTimeout time.Duration `config:"read_header_timeout"`
	WriteTimeout      time.Duration `config:"write_timeout"`
	IdleTimeout       time.Duration `config:"idle_timeout"`
	DrainTimeout      time.Duration `config:"drain_timeout"`
}

// OTelConfig configures the telemetry pipeline.
type OTelConfig struct {
	ServiceName       string        `config:"service_name"`
	ServiceVersion    string        `config:"service_version"`
	ServiceInstanceID string        `config:"service_instance_id"`
	Exporter          Exporter      `config:"exporter"`
	SamplingRatio     float64       `config:"sampling_ratio"`
	ShutdownTimeout   time.Duration `config:"shutdown_timeout"`

	Resource struct {
		GCP bool `config:"gcp"`
	} `config:"resource"`

	OTLP OTLPConfig `config:"otlp"`

	GCP struct {
		ProjectID string `config:"project_id"`
	} `config:"gcp"`

	Batch struct {
		Timeout            time.Duration `config:"timeout"`
		ExportTimeout      time.Duration `config:"export_timeout"`
		MaxQueueSize       int           `config:"max_queue_size"`
		MaxExportBatchSize int           `config:"max_export_batch_size"`
	} `config:"batch"`

	Metrics struct {
		Enabled  bool          `config:"enabled"`
		Interval time.Duration `config:"interval"`
	} `config:"metrics"`

	Logs struct {
		Enabled bool `config:"enabled"`
	} `config:"logs"`
}

// OTLPConfig configures the OTLP exporters.
type OTLPConfig struct {
	Protocol    Protocol          `config:"protocol"`
	Endpoint    string            `config:"endpoint"`
	TLS         otlp.TLSMode      `config:"tls"`
	CAFile      string            `config:"ca_file"`
	Headers     map[string]string `config:"headers"`
	Temporality otlp.Temporality  `config:"temporality"`
}

// ConfigFileNotFoundError is returned when an explicitly given config
// file does not exist.
type ConfigFileNotFoundError struct {
	Path string
}

// Error implements the [error] interface.
func (e ConfigFileNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// Load reads the [Config]. Sources are merged in increasing precedence:
// the built-in defaults, the YAML file at path (if any), environment
// variables prefixed with [EnvPrefix] and finally overrides, which
// normally hold command line flags.
func Load(ctx context.Context, path string, overrides map[string]any) (Config, error) {
	sources := []config.Reader[map[string]any]{
		config.Yaml(defaults()),
	}
	if path != "" {
		sources = append(sources, config.Yaml(requireFile(path)))
	}
	sources = append(sources, config.EnvMap(EnvPrefix))
	if len(overrides) > 0 {
		sources = append(sources, config.ReaderOf(overrides))
	}

	return config.Read(ctx, config.Decode[Config](config.Merge(sources...)))
}

func defaults() config.Reader[*bytes.Reader] {
	return config.ReaderFunc[*bytes.Reader](func(ctx context.Context) (config.Value[*bytes.Reader], error) {
		return config.ValueOf(bytes.NewReader(defaultConfig)), nil
	})
}

func requireFile(path string) config.Reader[*os.File] {
	f := config.ReadFile(path)
	return config.ReaderFunc[*os.File](func(ctx context.Context) (config.Value[*os.File], error) {
		v, err := f.Read(ctx)
		if err != nil {
			return v, err
		}
		if _, ok := v.Value(); !ok {
			return v, ConfigFileNotFoundError{Path: path}
		}
		return v, nil
	})
}

// nonZero reads v, treating the zero value as unset.
func nonZero[T comparable](v T) config.Reader[T] {
	var zero T
	if v == zero {
		return config.EmptyReader[T]()
	}
	return config.ReaderOf(v)
}
