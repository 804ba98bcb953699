// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type logRecord struct {
	Message string `json:"msg"`
	Level   string `json:"level"`
	OTel    struct {
		TraceID string `json:"trace_id"`
		SpanID  string `json:"span_id"`
	} `json:"otel"`
}

func TestTraceHandler_Handle(t *testing.T) {
	t.Run("will not add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is invalid", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

			log.InfoContext(context.Background(), "test")

			var record logRecord
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			require.Equal(t, "test", record.Message)
			require.Empty(t, record.OTel.TraceID)
			require.Empty(t, record.OTel.SpanID)
		})
	})

	t.Run("will add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is valid", func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

			tp := sdktrace.NewTracerProvider()
			t.Cleanup(func() { tp.Shutdown(context.Background()) })

			ctx, span := tp.Tracer("logging").Start(context.Background(), "test")
			defer span.End()

			log.InfoContext(ctx, "test")

			var record logRecord
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			require.Equal(t, span.SpanContext().TraceID().String(), record.OTel.TraceID)
			require.Equal(t, span.SpanContext().SpanID().String(), record.OTel.SpanID)
		})
	})
}

func TestMaskHandler_Handle(t *testing.T) {
	testCases := []struct {
		name   string
		log    func(*slog.Logger)
		expect map[string]any
	}{
		{
			name: "masks top level attr",
			log: func(l *slog.Logger) {
				l.Info("hello", slog.Any("headers", map[string]string{"api-key": "secret"}))
			},
			expect: map[string]any{"headers": Masked},
		},
		{
			name: "masks attr inside group",
			log: func(l *slog.Logger) {
				l.Info("hello", slog.Group("otlp", slog.String("headers", "secret"), slog.String("endpoint", "collector:4317")))
			},
			expect: map[string]any{"otlp": map[string]any{"headers": Masked, "endpoint": "collector:4317"}},
		},
		{
			name: "masks attrs added with With",
			log: func(l *slog.Logger) {
				l.With(slog.String("headers", "secret")).Info("hello")
			},
			expect: map[string]any{"headers": Masked},
		},
		{
			name: "leaves other attrs alone",
			log: func(l *slog.Logger) {
				l.Info("hello", slog.String("exporter", "otlp"))
			},
			expect: map[string]any{"exporter": "otlp"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.log(slog.New(NewMaskHandler(slog.NewJSONHandler(&buf, nil), "headers")))

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			for k, v := range tc.expect {
				require.Equal(t, v, record[k])
			}
		})
	}
}

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(ctx context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(ctx context.Context) error { return nil }

func (e *memoryExporter) ForceFlush(ctx context.Context) error { return nil }

func (e *memoryExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []string
	for _, r := range e.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("respects the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, Config{Level: slog.LevelWarn, Format: FormatJSON})

		log.Info("dropped")
		log.Warn("kept")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var record logRecord
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
		require.Equal(t, "kept", record.Message)
		require.Equal(t, "WARN", record.Level)
	})

	t.Run("writes text when configured", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, Config{Format: FormatText})

		log.Info("hello")

		require.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("exports records through the logger provider", func(t *testing.T) {
		exp := &memoryExporter{}
		lp := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))
		t.Cleanup(func() { lp.Shutdown(context.Background()) })

		var buf bytes.Buffer
		log := New(
			&buf,
			Config{Level: slog.LevelInfo},
			LoggerProvider("github.com/z5labs/fibonacci/logging", lp),
		)

		log.Debug("below level")
		log.Info("computed")

		require.Equal(t, []string{"computed"}, exp.bodies())
		require.Contains(t, buf.String(), "computed")
		require.NotContains(t, buf.String(), "below level")
	})
}
