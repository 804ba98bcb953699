// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fixedpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/z5labs/fibonacci/internal/try"
)

func TestWait(t *testing.T) {
	t.Run("will return nil", func(t *testing.T) {
		t.Run("if every task succeeds", func(t *testing.T) {
			var count atomic.Int32
			task := func(ctx context.Context) error {
				count.Add(1)
				return nil
			}

			err := Wait(context.Background(), task, task, task)

			require.NoError(t, err)
			require.Equal(t, int32(3), count.Load())
		})

		t.Run("if no tasks are given", func(t *testing.T) {
			require.NoError(t, Wait(context.Background()))
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if a task fails", func(t *testing.T) {
			taskErr := errors.New("failed")

			err := Wait(
				context.Background(),
				func(ctx context.Context) error { return taskErr },
				func(ctx context.Context) error { return nil },
			)

			require.ErrorIs(t, err, taskErr)
		})

		t.Run("if a task panics", func(t *testing.T) {
			err := Wait(
				context.Background(),
				func(ctx context.Context) error { panic("boom") },
			)

			var perr try.PanicError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "boom", perr.Value)
		})
	})

	t.Run("will cancel the remaining tasks", func(t *testing.T) {
		t.Run("if one task fails", func(t *testing.T) {
			taskErr := errors.New("failed")

			err := Wait(
				context.Background(),
				func(ctx context.Context) error { return taskErr },
				func(ctx context.Context) error {
					select {
					case <-ctx.Done():
						return nil
					case <-time.After(5 * time.Second):
						return errors.New("was not cancelled")
					}
				},
			)

			require.ErrorIs(t, err, taskErr)
		})
	})
}
