//go:build !linux

package cache

// worker_fallback.go is the portable realization of the Worker readiness
// loop (spec.md §4.5) for platforms without epoll: it relies on the Go
// runtime's own netpoller via blocking net.PacketConn/net.Conn reads, which
// already block the calling goroutine exactly the way a readiness-triggered
// recv would, without needing raw epoll syscalls. This mirrors the
// original's own arch/linux vs arch/redshift split — one readiness
// mechanism per platform family behind the same Worker contract.

import (
	"fmt"
	"net"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/sashcache/sashcache/internal/platform"
)

// tcpPollInterval bounds how long runTCP blocks on one connection before
// cycling to the next, so no single idle connection can starve the others
// of the one goroutine that is allowed to touch the Worker's Index
// (spec.md §1 Non-goals "no concurrent access to a single Index").
const tcpPollInterval = 50 * time.Millisecond

func (w *Worker) run(cfg *config) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := platform.Pin(w.core); err != nil && w.logger != nil {
		w.logger.Warn("failed to pin worker to core", zap.Int("worker", w.id), zap.Int("core", w.core), zap.Error(err))
	}

	switch cfg.transport {
	case TransportTCP:
		return w.runTCP(cfg)
	default:
		return w.runUDP(cfg)
	}
}

func (w *Worker) runUDP(cfg *config) error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", w.port))
	if err != nil {
		return fmt.Errorf("worker %d: listen udp :%d: %w", w.id, w.port, err)
	}
	defer conn.Close()

	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			return fmt.Errorf("worker %d: read: %w", w.id, err)
		}
		out, ok := w.handle(buf, n)
		if ok {
			_, _ = conn.WriteTo(out, addr)
		}
	}
}

// runTCP accepts cfg.tcpConnectionsPerPort connections and then serves all
// of them from this single goroutine, round-robin, with a short read
// deadline per connection. A per-connection goroutine would let
// w.handle -> w.store.Execute run concurrently from more than one
// goroutine against the Worker's single Index, which spec.md §1 and §5
// forbid; round-robin polling keeps exactly one goroutine mutating the
// Index, matching the epoll-based Linux runTCP's single-loop discipline.
func (w *Worker) runTCP(cfg *config) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", w.port))
	if err != nil {
		return fmt.Errorf("worker %d: listen tcp :%d: %w", w.id, w.port, err)
	}
	defer ln.Close()

	conns := make([]net.Conn, 0, cfg.tcpConnectionsPerPort)
	for i := 0; i < cfg.tcpConnectionsPerPort; i++ {
		conn, err := ln.Accept()
		if err != nil {
			for _, c := range conns {
				c.Close()
			}
			return fmt.Errorf("worker %d: accept: %w", w.id, err)
		}
		conns = append(conns, conn)
	}
	defer func() {
		for _, c := range conns {
			c.Close()
		}
	}()

	buf := make([]byte, maxDatagramSize)
	for len(conns) > 0 {
		for i := 0; i < len(conns); i++ {
			conn := conns[i]
			if err := conn.SetReadDeadline(time.Now().Add(tcpPollInterval)); err != nil {
				return fmt.Errorf("worker %d: set deadline: %w", w.id, err)
			}

			n, err := conn.Read(buf)
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				conn.Close()
				conns = append(conns[:i], conns[i+1:]...)
				i--
				continue
			}

			out, ok := w.handle(buf, n)
			if ok {
				if _, err := conn.Write(out); err != nil {
					conn.Close()
					conns = append(conns[:i], conns[i+1:]...)
					i--
				}
			}
		}
	}
	return nil
}
