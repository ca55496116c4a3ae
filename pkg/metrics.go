package cache

// metrics.go is the sashcache descendant of the teacher's metrics
// abstraction: a metricsSink interface with a noop and a Prometheus-backed
// implementation, so the hot path never pays for metric updates unless the
// caller opted in via WithMetrics. Label is "worker" instead of "shard" —
// sashcache has one Index per Worker, not a shard array — but the
// noop/prometheus split and the registration discipline are unchanged from
// pkg/cache.go's original.
//
// ┌───────────────────────────────────────┐
// │ Metric                    │ Type │ Labels │
// ├────────────────────────────┼──────┼────────┤
// │ sashcache_get_hits_total   │ Ctr  │ worker │
// │ sashcache_get_misses_total │ Ctr  │ worker │
// │ sashcache_sets_total       │ Ctr  │ worker │
// │ sashcache_sets_rejected_total│ Ctr│ worker │
// │ sashcache_rehashes_total   │ Ctr  │ worker │
// │ sashcache_index_len        │ Gge  │ worker │
// │ sashcache_index_capacity   │ Gge  │ worker │
// └───────────────────────────────────────┘
//
// © 2025 sashcache authors. MIT License.

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink abstracts the backend (Prometheus vs noop) away from Worker,
// mirroring the teacher's metricsSink split.
type metricsSink interface {
	incGetHit(worker int)
	incGetMiss(worker int)
	incSet(worker int)
	incSetRejected(worker int)
	incRehash(worker int)
	setIndexLen(worker int, n int)
	setIndexCapacity(worker int, n int)
}

type noopMetrics struct{}

func (noopMetrics) incGetHit(int)          {}
func (noopMetrics) incGetMiss(int)         {}
func (noopMetrics) incSet(int)             {}
func (noopMetrics) incSetRejected(int)     {}
func (noopMetrics) incRehash(int)          {}
func (noopMetrics) setIndexLen(int, int)   {}
func (noopMetrics) setIndexCapacity(int, int) {}

type promMetrics struct {
	getHits      *prometheus.CounterVec
	getMisses    *prometheus.CounterVec
	sets         *prometheus.CounterVec
	setsRejected *prometheus.CounterVec
	rehashes     *prometheus.CounterVec
	indexLen     *prometheus.GaugeVec
	indexCap     *prometheus.GaugeVec
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	label := []string{"worker"}
	pm := &promMetrics{
		getHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sashcache", Name: "get_hits_total", Help: "Number of get requests served from the Index.",
		}, label),
		getMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sashcache", Name: "get_misses_total", Help: "Number of get requests with no matching key.",
		}, label),
		sets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sashcache", Name: "sets_total", Help: "Number of set requests stored successfully.",
		}, label),
		setsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sashcache", Name: "sets_rejected_total", Help: "Number of set requests rejected for oversize key or value.",
		}, label),
		rehashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sashcache", Name: "rehashes_total", Help: "Number of completed Index rehashes.",
		}, label),
		indexLen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sashcache", Name: "index_len", Help: "Live entries in this worker's Index.",
		}, label),
		indexCap: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sashcache", Name: "index_capacity", Help: "Backing array size of this worker's Index.",
		}, label),
	}
	reg.MustRegister(pm.getHits, pm.getMisses, pm.sets, pm.setsRejected, pm.rehashes, pm.indexLen, pm.indexCap)
	return pm
}

func (m *promMetrics) incGetHit(worker int)      { m.getHits.WithLabelValues(workerLabel(worker)).Inc() }
func (m *promMetrics) incGetMiss(worker int)     { m.getMisses.WithLabelValues(workerLabel(worker)).Inc() }
func (m *promMetrics) incSet(worker int)         { m.sets.WithLabelValues(workerLabel(worker)).Inc() }
func (m *promMetrics) incSetRejected(worker int) { m.setsRejected.WithLabelValues(workerLabel(worker)).Inc() }
func (m *promMetrics) incRehash(worker int)      { m.rehashes.WithLabelValues(workerLabel(worker)).Inc() }
func (m *promMetrics) setIndexLen(worker, n int) {
	m.indexLen.WithLabelValues(workerLabel(worker)).Set(float64(n))
}
func (m *promMetrics) setIndexCapacity(worker, n int) {
	m.indexCap.WithLabelValues(workerLabel(worker)).Set(float64(n))
}

func workerLabel(id int) string { return strconv.Itoa(id) }

// newMetricsSink picks the noop or Prometheus sink depending on whether the
// caller supplied a registry via WithMetrics.
func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
