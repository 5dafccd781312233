// Package app assembles and runs one azmcp service process: MCP server over
// SSE, Prometheus metrics, health endpoints, and graceful shutdown. Both
// binaries (cosmos-mcp and search-mcp) are thin wrappers around this package;
// they differ only in the tool registry and the credential scope probed by
// the readiness check.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"azmcp/internal/azure"
	"azmcp/internal/config"
	"azmcp/internal/health"
	"azmcp/internal/mcpserver"
	"azmcp/internal/observe"
	"azmcp/internal/toolkit"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal. SSE streams are cut when it expires.
const shutdownTimeout = 15 * time.Second

// Options describes one service process.
type Options struct {
	// ServiceName is the MCP implementation name announced to clients,
	// e.g. "cosmosdb_mcp".
	ServiceName string

	// BinaryName identifies the process in telemetry and health responses,
	// e.g. "cosmos-mcp".
	BinaryName string

	// Config is the loaded server configuration.
	Config *config.Config

	// Registry is the service's tool catalog.
	Registry *toolkit.Registry

	// Credential authenticates against Azure. The readiness probe requests
	// a token for ReadyScope through it.
	Credential azcore.TokenCredential

	// ReadyScope is the Entra ID scope the readiness check acquires a token
	// for.
	ReadyScope string
}

// App is a fully wired service process ready to Run.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	otelDown   func(context.Context) error
}

// New wires the process together: telemetry providers, dispatcher, MCP
// server, and the HTTP mux with the SSE endpoint, /metrics, /healthz, and
// /readyz routes.
func New(ctx context.Context, opts Options) (*App, error) {
	otelDown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    opts.BinaryName,
		ServiceVersion: mcpserver.Version,
	})
	if err != nil {
		return nil, err
	}

	metrics := observe.DefaultMetrics()

	logger := slog.Default()
	dispatcher := toolkit.NewDispatcher(opts.Registry, logger, metrics)
	server := mcpserver.New(opts.ServiceName, dispatcher, metrics)

	checks := health.New(opts.BinaryName, mcpserver.Version, health.Checker{
		Name: "credential",
		Check: func(ctx context.Context) error {
			return azure.CheckCredential(ctx, opts.Credential, opts.ReadyScope)
		},
	})

	mux := http.NewServeMux()
	mux.Handle(opts.Config.Server.BasePath, server.Handler())
	mux.Handle(opts.Config.Server.BasePath+"/", server.Handler())
	mux.Handle("GET /metrics", promhttp.Handler())
	checks.Register(mux)

	return &App{
		cfg:    opts.Config,
		logger: logger,
		httpServer: &http.Server{
			Addr:              opts.Config.Server.ListenAddr,
			Handler:           observe.Middleware(metrics)(mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
		otelDown: otelDown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully. It
// returns once the listener has closed and in-flight requests have finished
// or the shutdown timeout has expired.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			a.logger.Info("listening with TLS", "addr", a.httpServer.Addr)
			err = a.httpServer.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			a.logger.Info("listening", "addr", a.httpServer.Addr)
			err = a.httpServer.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down", "timeout", shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close flushes and shuts down the telemetry providers.
func (a *App) Close(ctx context.Context) error {
	return a.otelDown(ctx)
}
