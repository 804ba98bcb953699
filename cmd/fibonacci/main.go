// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command fibonacci serves the n-th Fibonacci term over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"syscall"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/service"
	"github.com/z5labs/fibonacci/slogfield"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "fibonacci",
		Short: "Serve Fibonacci numbers over HTTP",
		Long: `fibonacci serves GET /fibonacci?n=<integer> and exports traces,
metrics and optionally logs for every computation.

Configuration is read from the built-in defaults, the --config file,
FIBONACCI_ prefixed environment variables and finally the flags below.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, configPath)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	fs.String("addr", "", "address to listen on, e.g. :8080")
	fs.String("log-level", "", "minimum log level: DEBUG, INFO, WARN or ERROR")
	fs.String("exporter", "", "telemetry exporter: otlp, stdout, gcp or none")

	return cmd
}

// overrides returns the config values set by flags the user passed explicitly.
func overrides(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)
	set := func(flag, section, key string) {
		if !cmd.Flags().Changed(flag) {
			return
		}
		value, err := cmd.Flags().GetString(flag)
		if err != nil {
			return
		}
		s, ok := m[section].(map[string]any)
		if !ok {
			s = make(map[string]any)
			m[section] = s
		}
		s[key] = value
	}

	set("addr", "http", "addr")
	set("log-level", "logging", "level")
	set("exporter", "otel", "exporter")
	return m
}

func serve(cmd *cobra.Command, configPath string) error {
	ctx := cmd.Context()

	cfg, err := service.Load(ctx, configPath, overrides(cmd))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", slogfield.Error(err))
		return err
	}

	runner := app.NotifyOnSignal(
		app.RecoverPanics(app.DefaultRunner[app.Runtime]()),
		os.Interrupt,
		syscall.SIGTERM,
	)

	err = runner.Run(ctx, service.Build(cfg))
	if err != nil {
		slog.ErrorContext(ctx, "failed to run fibonacci service", slogfield.Error(err))
		return err
	}
	return nil
}
