// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otlp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"
)

// TLSMode selects how the exporters secure their connection to the collector.
type TLSMode string

// Supported TLS modes.
const (
	TLSInsecure TLSMode = "insecure"
	TLSSystem   TLSMode = "system"
	TLSFile     TLSMode = "file"
)

// UnknownTLSModeError is returned for a TLS mode other than the supported ones.
type UnknownTLSModeError struct {
	Mode TLSMode
}

// Error implements the [error] interface.
func (e UnknownTLSModeError) Error() string {
	return fmt.Sprintf("unknown otlp tls mode: %q", string(e.Mode))
}

// InvalidCAFileError is returned when the CA bundle can not be used.
type InvalidCAFileError struct {
	Path  string
	Cause error
}

// Error implements the [error] interface.
func (e InvalidCAFileError) Error() string {
	return fmt.Sprintf("invalid ca file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidCAFileError) Unwrap() error {
	return e.Cause
}

var errNoCertificates = errors.New("no PEM encoded certificates found")

// BuildTLSConfig returns the [tls.Config] for the given mode. The config
// is nil for [TLSInsecure], which is also the default mode. caFile is only
// read in [TLSFile] mode.
//
// An endpoint with an https scheme is always dialed with TLS. In
// [TLSInsecure] mode the system roots are used for it.
func BuildTLSConfig(mode config.Reader[TLSMode], caFile config.Reader[string]) app.Builder[*tls.Config] {
	return app.BuilderFunc[*tls.Config](func(ctx context.Context) (*tls.Config, error) {
		m := config.MustOr(ctx, TLSInsecure, mode)
		switch m {
		case TLSInsecure:
			return nil, nil
		case TLSSystem:
			return systemTLSConfig()
		case TLSFile:
			path, err := config.Read(ctx, caFile)
			if err != nil {
				return nil, InvalidCAFileError{Path: path, Cause: err}
			}

			pem, err := os.ReadFile(path)
			if err != nil {
				return nil, InvalidCAFileError{Path: path, Cause: err}
			}

			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, InvalidCAFileError{Path: path, Cause: errNoCertificates}
			}
			return &tls.Config{
				MinVersion: tls.VersionTLS12,
				RootCAs:    pool,
			}, nil
		default:
			return nil, UnknownTLSModeError{Mode: m}
		}
	})
}

func systemTLSConfig() (*tls.Config, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    pool,
	}, nil
}

// endpointTLS returns the TLS config to dial endpoint with. A nil config
// means plaintext, which is never used for an https endpoint.
func endpointTLS(endpoint string, tc *tls.Config) (*tls.Config, error) {
	if tc != nil || !hasScheme(endpoint, "https") {
		return tc, nil
	}
	return systemTLSConfig()
}

func hasScheme(endpoint, scheme string) bool {
	s, _, ok := strings.Cut(endpoint, "://")
	return ok && strings.EqualFold(s, scheme)
}
