// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/z5labs/fibonacci/logging"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type harness struct {
	handler *Fibonacci
	spans   *tracetest.SpanRecorder
	metrics *sdkmetric.ManualReader
	logs    *bytes.Buffer
}

func newHarness(t *testing.T, logs io.Writer) harness {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	mr := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(mr))

	var buf *bytes.Buffer
	if logs == nil {
		buf = &bytes.Buffer{}
		logs = buf
	}
	log := logging.New(logs, logging.Config{Level: slog.LevelInfo, Format: logging.FormatJSON})

	h, err := NewFibonacci(
		Tracer(tp.Tracer(InstrumentationName)),
		Meter(mp.Meter(InstrumentationName)),
		Logger(log),
	)
	require.NoError(t, err)

	return harness{
		handler: h,
		spans:   sr,
		metrics: mr,
		logs:    buf,
	}
}

func (h harness) get(ctx context.Context, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequestWithContext(ctx, http.MethodGet, "/fibonacci"+query, nil)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h harness) invocations(t *testing.T) map[bool]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.metrics.Collect(context.Background(), &rm))

	counts := make(map[bool]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "fibonacci.invocations" {
				continue
			}

			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, ok := dp.Attributes.Value(AttrValidN)
				require.True(t, ok)
				counts[v.AsBool()] += dp.Value
			}
		}
	}
	return counts
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestFibonacci_ServeHTTP(t *testing.T) {
	testCases := []struct {
		name   string
		query  string
		body   string
		result int64
		valid  bool
	}{
		{
			name:   "first term",
			query:  "?n=1",
			body:   `{"n":1,"result":1}`,
			result: 1,
			valid:  true,
		},
		{
			name:   "tenth term",
			query:  "?n=10",
			body:   `{"n":10,"result":55}`,
			result: 55,
			valid:  true,
		},
		{
			name:   "largest supported term",
			query:  "?n=90",
			body:   `{"n":90,"result":2880067194370816120}`,
			result: 2880067194370816120,
			valid:  true,
		},
		{
			name:  "zero",
			query: "?n=0",
			body:  `{"message":"n must be between 1 and 90"}`,
		},
		{
			name:  "negative",
			query: "?n=-5",
			body:  `{"message":"n must be between 1 and 90"}`,
		},
		{
			name:  "just above the domain",
			query: "?n=91",
			body:  `{"message":"n must be between 1 and 90"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)

			w := h.get(context.Background(), tc.query)

			require.Equal(t, http.StatusOK, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))
			require.JSONEq(t, tc.body, w.Body.String())

			spans := h.spans.Ended()
			require.Len(t, spans, 1)

			span := spans[0]
			require.Equal(t, SpanName, span.Name())
			require.Equal(t, trace.SpanKindInternal, span.SpanKind())

			a := attrs(span)
			require.Contains(t, a, AttrN)

			if tc.valid {
				require.Equal(t, codes.Unset, span.Status().Code)
				require.Equal(t, tc.result, a[AttrResult].AsInt64())
				require.Equal(t, map[bool]int64{true: 1}, h.invocations(t))
				return
			}

			require.Equal(t, codes.Error, span.Status().Code)
			require.Equal(t, "n must be between 1 and 90", span.Status().Description)
			require.NotContains(t, a, AttrResult)
			require.Len(t, span.Events(), 1)
			require.Equal(t, "exception", span.Events()[0].Name)
			require.Equal(t, map[bool]int64{false: 1}, h.invocations(t))
		})
	}
}

func TestFibonacci_ServeHTTP_malformed(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{name: "missing", query: ""},
		{name: "empty", query: "?n="},
		{name: "not a number", query: "?n=abc"},
		{name: "fraction", query: "?n=1.5"},
		{name: "overflows int", query: "?n=99999999999999999999999"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)

			w := h.get(context.Background(), tc.query)

			require.Equal(t, http.StatusBadRequest, w.Code)
			require.JSONEq(t, `{"message":"n must be an integer"}`, w.Body.String())
			require.Empty(t, h.spans.Ended())
			require.Empty(t, h.invocations(t))
			require.Empty(t, h.logs.String())
		})
	}

	t.Run("will return method not allowed", func(t *testing.T) {
		t.Run("if the method is not GET", func(t *testing.T) {
			h := newHarness(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/fibonacci?n=10", nil)
			w := httptest.NewRecorder()
			h.handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusMethodNotAllowed, w.Code)
			require.Equal(t, http.MethodGet, w.Header().Get("Allow"))
			require.JSONEq(t, `{"message":"method not allowed"}`, w.Body.String())
			require.Empty(t, h.spans.Ended())
		})
	})
}

func TestFibonacci_ServeHTTP_idempotent(t *testing.T) {
	h := newHarness(t, nil)

	first := h.get(context.Background(), "?n=42")
	second := h.get(context.Background(), "?n=42")

	require.Equal(t, first.Body.String(), second.Body.String())
	require.Len(t, h.spans.Ended(), 2)
	require.Equal(t, map[bool]int64{true: 2}, h.invocations(t))
}

func TestFibonacci_ServeHTTP_cancelledContext(t *testing.T) {
	h := newHarness(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := h.get(ctx, "?n=10")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, h.spans.Ended(), 1)
}

func TestFibonacci_ServeHTTP_logs(t *testing.T) {
	h := newHarness(t, nil)

	h.get(context.Background(), "?n=10")

	var record struct {
		Message string `json:"msg"`
		N       int    `json:"fibonacci.n"`
		Result  int64  `json:"fibonacci.result"`
		OTel    struct {
			TraceID string `json:"trace_id"`
			SpanID  string `json:"span_id"`
		} `json:"otel"`
	}
	require.NoError(t, json.Unmarshal(h.logs.Bytes(), &record))

	span := h.spans.Ended()[0]
	require.Equal(t, "computed fibonacci", record.Message)
	require.Equal(t, 10, record.N)
	require.Equal(t, int64(55), record.Result)
	require.Equal(t, span.SpanContext().TraceID().String(), record.OTel.TraceID)
	require.Equal(t, span.SpanContext().SpanID().String(), record.OTel.SpanID)
}

func TestFibonacci_ServeHTTP_panic(t *testing.T) {
	h := newHarness(t, nil)
	h.handler.compute = func(int) (int64, error) {
		panic(errors.New("boom"))
	}

	require.Panics(t, func() {
		h.get(context.Background(), "?n=10")
	})

	spans := h.spans.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "boom", spans[0].Status().Description)
}

type lockedWriter struct {
	mu chan struct{}
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu <- struct{}{}
	defer func() { <-l.mu }()
	return l.w.Write(p)
}

func TestFibonacci_concurrentRequests(t *testing.T) {
	h := newHarness(t, lockedWriter{mu: make(chan struct{}, 1), w: io.Discard})

	mux := http.NewServeMux()
	Route(mux, "/fibonacci", h.handler)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	const requests = 50

	var eg errgroup.Group
	for i := range requests {
		eg.Go(func() error {
			n := i%90 + 1
			resp, err := http.Get(fmt.Sprintf("%s/fibonacci?n=%d", srv.URL, n))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var c Computed
			err = json.NewDecoder(resp.Body).Decode(&c)
			if err != nil {
				return err
			}
			if c.N != n {
				return fmt.Errorf("expected n=%d got %d", n, c.N)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	require.Len(t, h.spans.Ended(), requests)
	require.Equal(t, map[bool]int64{true: requests}, h.invocations(t))
}
