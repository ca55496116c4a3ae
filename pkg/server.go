// server.go is the sashcache descendant of the teacher's top-level Cache
// type (pkg/cache.go "Cache[K,V]"): the Server ties Config, Platform, and
// the per-core Workers together, using golang.org/x/sync/errgroup to spawn
// and join them the way the teacher's New()/Close() pair manages its
// shards, replacing the teacher's ad hoc thread-handle bookkeeping with
// errgroup's built-in first-error propagation (spec.md §4.6 "spawn and
// join").
//
// © 2025 sashcache authors. MIT License.
package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sashcache/sashcache/internal/platform"
)

// Server is the running cache: one Worker per allocated core, a shared
// metrics sink, and a shared logger (spec.md §2 "Control flow").
type Server struct {
	cfg     *config
	workers []*Worker
	metrics metricsSink
	logger  *zap.Logger
}

// New constructs a Server from Options but does not start any Worker —
// call Run to do that (spec.md §4.6 "Platform allocates N cores, spawns N
// Workers").
func New(opts ...Option) (*Server, error) {
	cfg := defaultConfig()
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	topo := platform.Discover()
	strategy := platform.StrategyInterleave
	if cfg.numaStrategy == Sequential {
		strategy = platform.StrategySequential
	}
	cores, err := platform.Allocate(topo, strategy, cfg.threads)
	if err != nil {
		return nil, fmt.Errorf("sashcache: %w", err)
	}

	metrics := newMetricsSink(cfg.registry)

	workers := make([]*Worker, cfg.threads)
	for i := 0; i < cfg.threads; i++ {
		workers[i] = newWorker(i, cores[i], cfg.port+i, cfg, metrics, cfg.logger)
	}

	return &Server{cfg: cfg, workers: workers, metrics: metrics, logger: cfg.logger}, nil
}

// Run spawns every Worker and blocks until ctx is canceled or every Worker
// has returned, then returns the first non-nil error. A Worker that fails
// (e.g. a socket error) stops on its own; the other Workers keep serving
// (spec.md §7 "Socket errors: fatal to the Worker. Other Workers
// continue").
func (s *Server) Run(ctx context.Context) error {
	var g errgroup.Group
	for _, w := range s.workers {
		w := w
		g.Go(func() error {
			errCh := make(chan error, 1)
			go func() { errCh <- w.run(s.cfg) }()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-errCh:
				return err
			}
		})
	}
	return g.Wait()
}

// WorkerSnapshot is one Worker's observable state, used by the debug
// endpoint (SPEC_FULL.md §6.3). Len, Capacity, and Rehashes are read via
// the Store's atomic accessors, since Snapshot runs on a caller goroutine
// (typically the debug HTTP handler) while the Worker's own goroutine
// concurrently mutates its Index — plain Len()/Capacity()/RehashHistory()
// reads would race with that mutation.
type WorkerSnapshot struct {
	ID       int
	Core     int
	Port     int
	Len      int
	Capacity int
	Rehashes int
}

// Snapshot reports every Worker's Store state without racing the Worker's
// own goroutine: every field comes from an atomic load mirrored by the
// owning goroutine on each mutation (internal/index.Index's atomicLen/
// atomicCap/atomicRehashes).
func (s *Server) Snapshot() []WorkerSnapshot {
	out := make([]WorkerSnapshot, len(s.workers))
	for i, w := range s.workers {
		out[i] = WorkerSnapshot{
			ID:       w.id,
			Core:     w.core,
			Port:     w.port,
			Len:      w.store.LenAtomic(),
			Capacity: w.store.CapacityAtomic(),
			Rehashes: w.store.RehashCountAtomic(),
		}
	}
	return out
}
