// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gcp

import (
	"context"
	"errors"
	"testing"

	"github.com/z5labs/fibonacci/config"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestBuildSpanExporter(t *testing.T) {
	t.Run("will return an exporter", func(t *testing.T) {
		t.Run("if the project id is configured", func(t *testing.T) {
			exp, err := BuildSpanExporter(
				config.ReaderOf("fibonacci-test"),
				ClientOptions(option.WithoutAuthentication()),
			).Build(context.Background())
			require.NoError(t, err)
			require.NoError(t, exp.Shutdown(context.Background()))
		})

		t.Run("if the project id comes from the environment", func(t *testing.T) {
			t.Setenv("GOOGLE_CLOUD_PROJECT", "fibonacci-env")

			exp, err := BuildSpanExporter(
				nil,
				ClientOptions(option.WithoutAuthentication()),
			).Build(context.Background())
			require.NoError(t, err)
			require.NoError(t, exp.Shutdown(context.Background()))
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the project id can not be read", func(t *testing.T) {
			readErr := errors.New("failed to read")
			projectID := config.ReaderFunc[string](func(context.Context) (config.Value[string], error) {
				return config.Value[string]{}, readErr
			})

			_, err := BuildSpanExporter(projectID).Build(context.Background())
			require.ErrorIs(t, err, readErr)
		})
	})
}
