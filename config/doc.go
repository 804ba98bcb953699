// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides a functional approach to reading and composing configuration values.
//
// A [Reader] returns a [Value] which may or may not be set. Readers compose with [Or],
// [Default], [Map] and [Bind], so simple sources build up into the configuration of a
// whole process:
//
//	ratio, err := config.Read(ctx,
//	    config.Default(1.0, config.Float64FromString(config.Env("OTEL_TRACES_SAMPLER_ARG"))),
//	)
//
// Structured configuration is read as nested maps, merged in order of precedence and
// then decoded into a struct:
//
//	cfg, err := config.Read(ctx, config.Decode[Config](
//	    config.Merge(
//	        config.ReaderOf(defaults),
//	        config.Yaml(config.ReadFile("config.yaml")),
//	        config.EnvMap("FIBONACCI_"),
//	    ),
//	))
//
// Readers distinguish a value which is not set from an error. [Read] reports the former
// as [ErrValueNotSet].
package config
