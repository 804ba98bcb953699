// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"fmt"

	"github.com/z5labs/fibonacci/internal/try"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrN      = attribute.Key("fibonacci.n")
	AttrResult = attribute.Key("fibonacci.result")
)

// recordOutcome annotates span with the outcome of computing the n-th term.
// The status is left unset on success.
func recordOutcome(span trace.Span, n int, result int64, err error) {
	span.SetAttributes(AttrN.Int(n))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return
	}
	span.SetAttributes(AttrResult.Int64(result))
}

// recordPanic must be deferred after the span is started. It marks the
// span as failed and then continues panicking.
func recordPanic(span trace.Span) {
	r := recover()
	if r == nil {
		return
	}

	err := try.PanicError{Value: r}
	span.SetStatus(codes.Error, fmt.Sprint(r))
	span.RecordError(err, trace.WithStackTrace(true))
	panic(r)
}
