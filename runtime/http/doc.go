// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package http runs an instrumented HTTP server as an [app.Runtime].
//
// Compose a listener builder, a handler builder and server options:
//
//	rt := http.Build(
//	    http.BuildTCPListener(config.ReaderOf(":8080")),
//	    app.BuilderOf[http.Handler](mux),
//	    http.ReadTimeout(config.ReaderOf(5*time.Second)),
//	)
//
// Every request passes through [otelhttp.NewHandler], which records the
// transport level server span and the standard HTTP server metrics.
//
// When the context given to [Runtime.Run] is cancelled the server stops
// accepting connections and waits for in flight requests, bounded by
// [DrainTimeout], before Run returns.
//
// When server options are not specified, the following defaults are applied:
//
//   - ReadTimeout: 5 seconds
//   - ReadHeaderTimeout: 2 seconds
//   - WriteTimeout: 10 seconds
//   - IdleTimeout: 120 seconds
//   - MaxHeaderBytes: 1048576 bytes (1 MB)
//   - DrainTimeout: 10 seconds
package http
