// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/fibonacci/app"
	"github.com/z5labs/fibonacci/config"
	"github.com/z5labs/fibonacci/internal/fixedpool"
	"github.com/z5labs/fibonacci/slogfield"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultAddr is the address listened on when none is configured.
const DefaultAddr = ":8080"

// BuildTCPListener returns an [app.Builder] for a TCP listener bound to addr.
func BuildTCPListener(addr config.Reader[string]) app.Builder[net.Listener] {
	if addr == nil {
		addr = config.EmptyReader[string]()
	}
	return app.BuilderFunc[net.Listener](func(ctx context.Context) (net.Listener, error) {
		a, err := config.Read(ctx, config.Default(DefaultAddr, addr))
		if err != nil {
			return nil, err
		}

		var lc net.ListenConfig
		return lc.Listen(ctx, "tcp", a)
	})
}

type serverOptions struct {
	disableGeneralOptionsHandler config.Reader[bool]
	readTimeout                  config.Reader[time.Duration]
	readHeaderTimeout            config.Reader[time.Duration]
	writeTimeout                 config.Reader[time.Duration]
	idleTimeout                  config.Reader[time.Duration]
	maxHeaderBytes               config.Reader[int]
	drainTimeout                 config.Reader[time.Duration]
	handlerOpts                  []otelhttp.Option
	logger                       *slog.Logger
}

// ServerOption is a functional option for configuring the server built by [Build].
type ServerOption func(*serverOptions)

// DisableGeneralOptionsHandler controls whether the server automatically
// replies to OPTIONS * requests.
func DisableGeneralOptionsHandler(disable config.Reader[bool]) ServerOption {
	return func(so *serverOptions) {
		so.disableGeneralOptionsHandler = disable
	}
}

// ReadTimeout sets the maximum duration for reading the entire request,
// including the body.
func ReadTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(so *serverOptions) {
		so.readTimeout = d
	}
}

// ReadHeaderTimeout sets the maximum duration for reading request headers.
func ReadHeaderTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(so *serverOptions) {
		so.readHeaderTimeout = d
	}
}

// WriteTimeout sets the maximum duration before timing out writes of the response.
func WriteTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(so *serverOptions) {
		so.writeTimeout = d
	}
}

// IdleTimeout sets the maximum duration to wait for the next request
// when keep-alives are enabled.
func IdleTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(so *serverOptions) {
		so.idleTimeout = d
	}
}

// MaxHeaderBytes sets the maximum number of bytes the server will read
// parsing the request header's keys and values, including the request line.
func MaxHeaderBytes(n config.Reader[int]) ServerOption {
	return func(so *serverOptions) {
		so.maxHeaderBytes = n
	}
}

// DrainTimeout bounds how long in flight requests may take to complete
// once the server begins shutting down.
func DrainTimeout(d config.Reader[time.Duration]) ServerOption {
	return func(so *serverOptions) {
		so.drainTimeout = d
	}
}

// Instrumentation passes options through to [otelhttp.NewHandler], e.g.
// the tracer and meter providers to record with.
func Instrumentation(opts ...otelhttp.Option) ServerOption {
	return func(so *serverOptions) {
		so.handlerOpts = append(so.handlerOpts, opts...)
	}
}

// Logger sets the logger used to report server lifecycle events.
func Logger(l *slog.Logger) ServerOption {
	return func(so *serverOptions) {
		so.logger = l
	}
}

// Runtime serves HTTP requests until its context is cancelled.
type Runtime struct {
	ls           net.Listener
	srv          *http.Server
	drainTimeout time.Duration
	log          *slog.Logger
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. On cancellation the server is shut down gracefully.
// Returns nil if the server shuts down cleanly.
func (r Runtime) Run(ctx context.Context) error {
	r.log.InfoContext(ctx, "serving http", slogfield.String("addr", r.ls.Addr().String()))

	err := fixedpool.Wait(
		ctx,
		func(ctx context.Context) error {
			err := r.srv.Serve(r.ls)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
		func(ctx context.Context) error {
			<-ctx.Done()

			r.log.Info("draining in flight requests", slogfield.Duration("timeout", r.drainTimeout))

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.drainTimeout)
			defer cancel()

			return r.srv.Shutdown(shutdownCtx)
		},
	)

	return err
}

// Build returns an [app.Builder] for an HTTP server [Runtime] which serves
// the handler built by handlerB on the listener built by listenerB.
func Build[L net.Listener, H http.Handler](listenerB app.Builder[L], handlerB app.Builder[H], opts ...ServerOption) app.Builder[Runtime] {
	return app.BuilderFunc[Runtime](func(ctx context.Context) (Runtime, error) {
		so := &serverOptions{
			logger: slog.Default(),
		}
		for _, opt := range opts {
			opt(so)
		}

		h := app.MustBuild(ctx, handlerB)
		ln := app.MustBuild(ctx, listenerB)

		httpServer := &http.Server{
			Handler:                      otelhttp.NewHandler(h, "server", so.handlerOpts...),
			DisableGeneralOptionsHandler: config.MustOr(ctx, false, orEmpty(so.disableGeneralOptionsHandler)),
			ReadTimeout:                  config.MustOr(ctx, 5*time.Second, orEmpty(so.readTimeout)),
			ReadHeaderTimeout:            config.MustOr(ctx, 2*time.Second, orEmpty(so.readHeaderTimeout)),
			WriteTimeout:                 config.MustOr(ctx, 10*time.Second, orEmpty(so.writeTimeout)),
			IdleTimeout:                  config.MustOr(ctx, 120*time.Second, orEmpty(so.idleTimeout)),
			MaxHeaderBytes:               config.MustOr(ctx, 1048576, orEmpty(so.maxHeaderBytes)),
			ErrorLog:                     slog.NewLogLogger(so.logger.Handler(), slog.LevelError),
		}

		rt := Runtime{
			ls:           ln,
			srv:          httpServer,
			drainTimeout: config.MustOr(ctx, 10*time.Second, orEmpty(so.drainTimeout)),
			log:          so.logger,
		}

		return rt, nil
	})
}

func orEmpty[T any](r config.Reader[T]) config.Reader[T] {
	if r == nil {
		return config.EmptyReader[T]()
	}
	return r
}
