package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/aria/pkg/adapters/http"
	"github.com/aretw0/aria/pkg/adapters/mcp"
	"github.com/aretw0/aria/pkg/metrics"
	"github.com/aretw0/aria/pkg/observability"
	"github.com/aretw0/aria/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr            string
	Script          string
	Pace            time.Duration
	SessionLimit    int
	MetricsInterval time.Duration
	Log             LogOptions
	// Listener replaces net.Listen on Addr (tests bind to port 0).
	Listener net.Listener
	// Ready is called with the bound address once the server accepts connections.
	Ready func(addr string)
}

// Serve runs the HTTP adapter and the metrics sampler until ctx is done.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger, err := CreateLogger(opts.Log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	consoleMetrics, err := observability.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	sampler := metrics.NewSampler(metrics.WithRegisterer(reg))

	sessions := session.NewManager(
		SessionFactory(ConsoleOptions{
			Script:  opts.Script,
			Pace:    opts.Pace,
			Logger:  logger,
			Metrics: consoleMetrics,
		}),
		session.WithLogger(logger),
		session.WithLimit(opts.SessionLimit),
	)
	defer sessions.Close()

	ln := opts.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", opts.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
		}
	}

	srv := &http.Server{
		Handler: httpadapter.NewHandler(sessions,
			httpadapter.WithGatherer(reg),
			httpadapter.WithLogger(logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := sampler.Run(gctx, opts.MetricsInterval, func(s metrics.Snapshot) {
			logger.Debug("metrics tick", "cpu", s.CPU, "ram", s.RAM, "disk", s.Disk, "uptime", s.UptimeString())
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutdown signal received, shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		return nil
	})

	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}
	return g.Wait()
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Transport string
	Addr      string
	BaseURL   string
	Script    string
	Pace      time.Duration
	Log       LogOptions
}

// ServeMCP exposes a session manager as MCP tools over stdio or SSE.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	logger, err := CreateLogger(opts.Log)
	if err != nil {
		return err
	}

	sessions := session.NewManager(
		SessionFactory(ConsoleOptions{Script: opts.Script, Pace: opts.Pace, Logger: logger}),
		session.WithLogger(logger),
	)
	defer sessions.Close()

	srv := mcp.NewServer(sessions, mcp.WithLogger(logger))

	switch opts.Transport {
	case "", "stdio":
		logger.Info("Starting Aria MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + opts.Addr
		}
		logger.Info("Starting Aria MCP Server (SSE)", "address", opts.Addr)
		return srv.ServeSSE(ctx, opts.Addr, baseURL)
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
	}
}
