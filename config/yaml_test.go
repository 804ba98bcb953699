// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type trackingReader struct {
	io.Reader
	closed bool
}

func (r *trackingReader) Close() error {
	r.closed = true
	return nil
}

func TestYaml(t *testing.T) {
	testCases := []struct {
		name      string
		doc       string
		expectSet bool
		expectVal map[string]any
		expectErr bool
	}{
		{
			name: "parses nested maps",
			doc: `
otel:
  exporter: stdout
  sampling_ratio: 0.5
`,
			expectSet: true,
			expectVal: map[string]any{
				"otel": map[string]any{
					"exporter":       "stdout",
					"sampling_ratio": 0.5,
				},
			},
		},
		{
			name: "empty document is unset",
			doc:  "",
		},
		{
			name:      "invalid yaml",
			doc:       "otel: [",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &trackingReader{Reader: strings.NewReader(tc.doc)}

			val, err := Yaml(ReaderOf(src)).Read(context.Background())
			require.True(t, src.closed)
			if tc.expectErr {
				var yerr InvalidYamlError
				require.ErrorAs(t, err, &yerr)
				return
			}
			require.NoError(t, err)

			m, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
			if tc.expectSet {
				require.Equal(t, tc.expectVal, m)
			}
		})
	}

	t.Run("unset source is unset", func(t *testing.T) {
		val, err := Yaml(EmptyReader[io.Reader]()).Read(context.Background())
		require.NoError(t, err)

		_, ok := val.Value()
		require.False(t, ok)
	})
}
