// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app provides the building blocks for composing a process out
// of lazily constructed values ([Builder]) and long running work
// ([Runtime]) executed by a [Runner].
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/z5labs/fibonacci/internal/try"
)

// Builder constructs a value of type T.
type Builder[T any] interface {
	Build(context.Context) (T, error)
}

// BuilderFunc is a functional implementation of the [Builder] interface.
type BuilderFunc[T any] func(context.Context) (T, error)

// Build implements the [Builder] interface.
func (f BuilderFunc[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}

// BuilderOf returns a [Builder] which always returns v.
func BuilderOf[T any](v T) Builder[T] {
	return BuilderFunc[T](func(ctx context.Context) (T, error) {
		return v, nil
	})
}

// MemoizeBuilder wraps b so the underlying build only ever happens once.
// The first result, including any error, is returned on every call.
func MemoizeBuilder[T any](b Builder[T]) Builder[T] {
	var (
		mu    sync.Mutex
		built bool
		val   T
		err   error
	)
	return BuilderFunc[T](func(ctx context.Context) (T, error) {
		mu.Lock()
		defer mu.Unlock()

		if built {
			return val, err
		}

		val, err = b.Build(ctx)
		built = true
		return val, err
	})
}

// Map transforms the value built by b with f.
func Map[A, B any](b Builder[A], f func(A) (B, error)) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		var zero B

		a, err := b.Build(ctx)
		if err != nil {
			return zero, err
		}

		v, err := f(a)
		if err != nil {
			return zero, err
		}
		return v, nil
	})
}

// Bind uses the value built by b to select the next [Builder].
func Bind[A, B any](b Builder[A], f func(A) Builder[B]) Builder[B] {
	return BuilderFunc[B](func(ctx context.Context) (B, error) {
		a, err := b.Build(ctx)
		if err != nil {
			var zero B
			return zero, err
		}

		v, err := f(a).Build(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return v, nil
	})
}

// MustBuild builds b and panics with the returned error, if any.
// It is meant for use inside other builders which are ultimately
// built with [TryBuild].
func MustBuild[T any](ctx context.Context, b Builder[T]) T {
	v, err := b.Build(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// TryBuild builds b and recovers from any panic raised while doing so.
// A panic value which is an error is returned as is. Any other value is
// returned as a [PanicError].
func TryBuild[T any](ctx context.Context, b Builder[T]) (v T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if rerr, ok := r.(error); ok {
			err = rerr
			return
		}
		err = PanicError{Value: r}
	}()

	return b.Build(ctx)
}

// PanicError is returned when a panic is recovered from.
type PanicError = try.PanicError

// Runtime represents long running work, e.g. an HTTP server.
type Runtime interface {
	Run(context.Context) error
}

// RuntimeFunc is a functional implementation of the [Runtime] interface.
type RuntimeFunc func(context.Context) error

// Run implements the [Runtime] interface.
func (f RuntimeFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Runner builds and then runs a [Runtime].
type Runner[T Runtime] interface {
	Run(context.Context, Builder[T]) error
}

// RunnerFunc is a functional implementation of the [Runner] interface.
type RunnerFunc[T Runtime] func(context.Context, Builder[T]) error

// Run implements the [Runner] interface.
func (f RunnerFunc[T]) Run(ctx context.Context, b Builder[T]) error {
	return f(ctx, b)
}

// BuildError is returned by [DefaultRunner] when the [Runtime] could not be built.
type BuildError struct {
	Cause error
}

// Error implements the [error] interface.
func (e BuildError) Error() string {
	return fmt.Sprintf("failed to build runtime: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e BuildError) Unwrap() error {
	return e.Cause
}

// RunError is returned by [DefaultRunner] when the [Runtime] fails.
type RunError struct {
	Cause error
}

// Error implements the [error] interface.
func (e RunError) Error() string {
	return fmt.Sprintf("failed to run runtime: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RunError) Unwrap() error {
	return e.Cause
}

// DefaultRunner builds the [Runtime] with [TryBuild] and then runs it.
func DefaultRunner[T Runtime]() Runner[T] {
	return RunnerFunc[T](func(ctx context.Context, b Builder[T]) error {
		rt, err := TryBuild(ctx, b)
		if err != nil {
			return BuildError{Cause: err}
		}

		err = rt.Run(ctx)
		if err != nil {
			return RunError{Cause: err}
		}
		return nil
	})
}

// NotifyOnSignal cancels the [context.Context] given to r when any of
// the given signals are received. With no signals, r is returned as is.
func NotifyOnSignal[T Runtime](r Runner[T], signals ...os.Signal) Runner[T] {
	if len(signals) == 0 {
		return r
	}
	return RunnerFunc[T](func(ctx context.Context, b Builder[T]) error {
		sigCtx, cancel := signal.NotifyContext(ctx, signals...)
		defer cancel()

		return r.Run(sigCtx, b)
	})
}

// RecoverPanics converts any panic raised by r into a [PanicError].
func RecoverPanics[T Runtime](r Runner[T]) Runner[T] {
	return RunnerFunc[T](func(ctx context.Context, b Builder[T]) (err error) {
		defer try.Recover(&err)

		return r.Run(ctx, b)
	})
}
