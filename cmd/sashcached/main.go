// Command sashcached runs the sashcache server: a memcached-compatible,
// single-node, in-memory cache (spec.md §1). Flag parsing is the external
// collaborator spec.md §1 deliberately keeps out of the CORE — this file is
// that collaborator, using spf13/pflag (a stdlib flag superset with
// short+long pairs) rather than a hand-rolled parser.
//
// © 2025 sashcache authors. MIT License.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cache "github.com/sashcache/sashcache/pkg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sashcached:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		threads       = pflag.UintP("threads", "t", 1, "number of workers")
		capacity      = pflag.UintP("capacity", "c", 10000, "initial Index capacity per worker")
		threadMapping = pflag.String("thread-mapping", "interleave", "NUMA strategy: interleave|sequential")
		transport     = pflag.String("transport", "udp", "socket type: udp|tcp")
		tcpConns      = pflag.Uint("incoming-tcp-connections", 1, "streams to accept per port (tcp only)")
		port          = pflag.Uint("port", 6666, "base port; worker i binds port+i")
		metricsAddr   = pflag.String("metrics-addr", "", "optional address to serve /metrics and /debug/sashcache/snapshot")
		logLevel      = pflag.String("log-level", "info", "zap log level: debug|info|warn|error")
	)
	pflag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	numa := cache.Interleave
	if *threadMapping == "sequential" {
		numa = cache.Sequential
	}
	transportKind := cache.TransportUDP
	if *transport == "tcp" {
		transportKind = cache.TransportTCP
	}

	opts := []cache.Option{
		cache.WithThreads(int(*threads)),
		cache.WithCapacity(int(*capacity)),
		cache.WithNumaStrategy(numa),
		cache.WithTransport(transportKind),
		cache.WithTCPConnectionsPerPort(int(*tcpConns)),
		cache.WithPort(int(*port)),
		cache.WithLogger(logger),
	}

	var registry *prometheus.Registry
	if *metricsAddr != "" {
		registry = prometheus.NewRegistry()
		opts = append(opts, cache.WithMetrics(registry))
	}

	srv, err := cache.New(opts...)
	if err != nil {
		return fmt.Errorf("constructing server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		startDebugServer(ctx, *metricsAddr, registry, srv, logger)
	}

	logger.Info("starting sashcache",
		zap.Uint("threads", *threads),
		zap.Uint("capacity", *capacity),
		zap.String("transport", *transport),
		zap.Uint("port", *port),
	)

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("sashcache shut down cleanly")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// startDebugServer serves Prometheus metrics plus the read-only
// /debug/sashcache/snapshot endpoint (SPEC_FULL.md §6.3) until ctx is
// canceled.
func startDebugServer(ctx context.Context, addr string, reg *prometheus.Registry, srv *cache.Server, logger *zap.Logger) {
	mux := http.NewServeMux()
	if reg != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/debug/sashcache/snapshot", func(w http.ResponseWriter, r *http.Request) {
		writeSnapshotJSON(w, srv.Snapshot())
	})

	httpSrv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("debug server stopped", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()
}
