// worker.go implements the Worker (C5) request pipeline that is common to
// both the epoll-based Linux readiness loop (worker_linux.go) and the
// portable fallback (worker_fallback.go): decode the datagram, execute it
// against the Store, encode the response into the same buffer, and hand it
// back to the caller for sending (spec.md §4.5).
//
// © 2025 sashcache authors. MIT License.
package cache

import (
	"go.uber.org/zap"

	"github.com/sashcache/sashcache/internal/codec"
	"github.com/sashcache/sashcache/internal/index"
)

// maxDatagramSize is the per-request buffer size (spec.md §4.5 "1500-byte
// buffer").
const maxDatagramSize = 1500

// Worker owns one Store (and therefore one Index) and one socket. It is
// constructed by New, one per allocated core (spec.md §4.5 "Init").
type Worker struct {
	id      int
	core    int
	port    int
	store   *Store
	metrics metricsSink
	logger  *zap.Logger
}

func newWorker(id, core, port int, cfg *config, metrics metricsSink, logger *zap.Logger) *Worker {
	ix := index.WithCapacityAndParameters[index.Key, index.Value](cfg.capacity, cfg.indexParameters())
	return &Worker{
		id:      id,
		core:    core,
		port:    port,
		store:   NewStore(ix),
		metrics: metrics,
		logger:  logger,
	}
}

// handle runs one decode -> execute -> encode cycle over datagram (the
// portion of buf actually received) and returns the bytes to send, or
// (nil, false) for NoReply (spec.md §4.4 "Get ... miss").
//
// buf is reused as both the request and response buffer (spec.md §4.3
// "Buffer discipline"): handle never allocates beyond a possible Index
// rehash.
func (w *Worker) handle(buf []byte, n int) ([]byte, bool) {
	datagram := buf[:n]
	op, err := codec.NewDecoder(datagram).Decode()
	if err != nil {
		// spec.md §7: production policy is drop-and-continue, not panic.
		if w.logger != nil {
			w.logger.Debug("dropping malformed datagram", zap.Int("worker", w.id), zap.Error(err))
		}
		return nil, false
	}

	before := w.store.Len()
	rehashesBefore := w.store.RehashCountAtomic()
	resp := w.store.Execute(op)
	w.recordMetrics(op, resp, before, rehashesBefore)

	return codec.EncodeInto(buf, resp)
}

func (w *Worker) recordMetrics(op codec.ClientOp, resp codec.ServerOp, lenBefore, rehashesBefore int) {
	if w.metrics == nil {
		return
	}
	if w.store.RehashCountAtomic() != rehashesBefore {
		w.metrics.incRehash(w.id)
	}
	switch op.Kind {
	case codec.OpGet:
		if resp.Kind == codec.OpValue {
			w.metrics.incGetHit(w.id)
		} else {
			w.metrics.incGetMiss(w.id)
		}
	case codec.OpSet:
		if resp.Kind == codec.OpStored {
			w.metrics.incSet(w.id)
		} else {
			w.metrics.incSetRejected(w.id)
		}
	}
	if w.store.Len() != lenBefore {
		w.metrics.setIndexLen(w.id, w.store.Len())
		w.metrics.setIndexCapacity(w.id, w.store.Capacity())
	}
	if hist := w.store.RehashHistory(); len(hist) > 0 {
		w.metrics.setIndexCapacity(w.id, w.store.Capacity())
	}
}
