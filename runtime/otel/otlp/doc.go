// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otlp provides OpenTelemetry Protocol exporters for traces,
// metrics and logs over gRPC or HTTP.
//
// The gRPC exporters share a single [grpc.ClientConn] built by
// [BuildGrpcConn]. Exporters created with an existing connection do not
// close it, so the connection must be closed by its owner once every
// exporter has shut down.
//
// Transport security is selected by [TLSMode]: plaintext, the system
// trust roots, or a CA bundle read from a file.
package otlp
