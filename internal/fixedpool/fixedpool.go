// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fixedpool runs a fixed set of tasks concurrently and waits
// for all of them to return.
package fixedpool

import (
	"context"
	"errors"
	"sync"

	"github.com/z5labs/fibonacci/internal/try"
)

// Task is a unit of work run by [Wait].
type Task func(context.Context) error

// Wait runs every task in its own goroutine. The first task to fail
// cancels the context shared by the others. Wait returns once every
// task has returned, joining all of their errors. Panics are recovered
// and reported as [try.PanicError].
func Wait(ctx context.Context, tasks ...Task) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := run(ctx, task)
			if err == nil {
				return
			}

			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()

			cancel(err)
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

func run(ctx context.Context, t Task) (err error) {
	defer try.Recover(&err)

	return t(ctx)
}
