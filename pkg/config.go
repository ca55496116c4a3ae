package cache

// config.go is the sashcache descendant of the teacher's functional-options
// config layer (pkg/config.go): a private config struct, a defaultConfig
// constructor, and a set of With* options applied in New(). The shard/TTL/
// eviction knobs are gone — this domain has neither — replaced by the
// Platform/Worker knobs spec.md §6.2 requires (threads, capacity, NUMA
// strategy, transport) plus the Index's own Parameters.
//
// © 2025 sashcache authors. MIT License.

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sashcache/sashcache/internal/hash"
	"github.com/sashcache/sashcache/internal/index"
)

// NumaStrategy selects how the Platform maps workers onto cores (spec.md
// §4.6, §6.2).
type NumaStrategy string

const (
	Interleave NumaStrategy = "interleave"
	Sequential NumaStrategy = "sequential"
)

// Transport selects the socket type a Worker binds (spec.md §4.5, §6.2).
type Transport string

const (
	TransportUDP Transport = "udp"
	TransportTCP Transport = "tcp"
)

// config bundles every knob that influences server behavior. All fields are
// immutable once the Server is constructed.
type config struct {
	threads               int
	capacity               int
	numaStrategy           NumaStrategy
	transport              Transport
	tcpConnectionsPerPort  int
	port                   int

	maxLoad       float64
	growth        float64
	probe         index.ProbeFn
	hasherFactory hash.Factory

	logger      *zap.Logger
	registry    *prometheus.Registry
	metricsAddr string
}

// Option is the functional option passed to New.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		threads:              1,
		capacity:             10000,
		numaStrategy:         Interleave,
		transport:            TransportUDP,
		tcpConnectionsPerPort: 1,
		port:                 6666,
		maxLoad:              0.7,
		growth:               2.0,
		logger:               zap.NewNop(),
	}
}

// WithThreads sets the number of Workers (spec.md --threads/-t).
func WithThreads(n int) Option { return func(c *config) { c.threads = n } }

// WithCapacity sets each Worker's initial Index capacity (spec.md
// --capacity/-c).
func WithCapacity(n int) Option { return func(c *config) { c.capacity = n } }

// WithNumaStrategy selects core-allocation order (spec.md --thread-mapping).
func WithNumaStrategy(s NumaStrategy) Option { return func(c *config) { c.numaStrategy = s } }

// WithTransport selects udp or tcp (spec.md --transport).
func WithTransport(t Transport) Option { return func(c *config) { c.transport = t } }

// WithTCPConnectionsPerPort sets how many streams a TCP Worker accepts
// before entering its readiness loop (spec.md --incoming-tcp-connections).
func WithTCPConnectionsPerPort(n int) Option {
	return func(c *config) { c.tcpConnectionsPerPort = n }
}

// WithPort sets the base port; worker i binds port+i (spec.md --port).
func WithPort(p int) Option { return func(c *config) { c.port = p } }

// WithMaxLoad overrides the Index's default rehash trigger (0.7).
func WithMaxLoad(f float64) Option { return func(c *config) { c.maxLoad = f } }

// WithGrowth overrides the Index's default capacity multiplier on rehash
// (2.0).
func WithGrowth(f float64) Option { return func(c *config) { c.growth = f } }

// WithProbe overrides the Index's probe function. Defaults to
// index.DefaultProbe if never called.
func WithProbe(p index.ProbeFn) Option { return func(c *config) { c.probe = p } }

// WithHasherFactory overrides the Index's hasher factory. Defaults to
// hash.FNV1Factory{} if never called.
func WithHasherFactory(f hash.Factory) Option { return func(c *config) { c.hasherFactory = f } }

// WithLogger plugs an external zap.Logger. The server logs a warning when a
// worker cannot be pinned to its core and a debug line for each dropped
// malformed datagram; it emits no other log lines.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithMetricsAddr records addr in the config. The Server does not read it
// and starts no HTTP listener; cmd/sashcached serves /metrics and
// /debug/sashcache/snapshot itself from its --metrics-addr flag.
func WithMetricsAddr(addr string) Option {
	return func(c *config) { c.metricsAddr = addr }
}

func (c *config) indexParameters() index.Parameters[index.Key, index.Value] {
	return index.Parameters[index.Key, index.Value]{
		MaxLoad:       c.maxLoad,
		Growth:        c.growth,
		Probe:         c.probe,
		HasherFactory: c.hasherFactory,
	}
}

func applyOptions(cfg *config, opts []Option) error {
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.threads < 1 {
		return errInvalidThreads
	}
	if cfg.capacity < 1 {
		return errInvalidCapacity
	}
	if cfg.maxLoad <= 0 || cfg.maxLoad >= 1 {
		return errInvalidMaxLoad
	}
	if cfg.growth < 1 {
		return errInvalidGrowth
	}
	if cfg.transport != TransportUDP && cfg.transport != TransportTCP {
		return errInvalidTransport
	}
	if cfg.tcpConnectionsPerPort < 1 {
		return errInvalidTCPConns
	}
	return nil
}

var (
	errInvalidThreads    = errors.New("threads must be > 0")
	errInvalidCapacity   = errors.New("capacity must be > 0")
	errInvalidMaxLoad    = errors.New("max load must be in (0, 1)")
	errInvalidGrowth     = errors.New("growth must be >= 1")
	errInvalidTransport  = errors.New("transport must be udp or tcp")
	errInvalidTCPConns   = errors.New("incoming-tcp-connections must be > 0")
)
