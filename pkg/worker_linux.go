//go:build linux

package cache

// worker_linux.go realizes the Worker's readiness loop (spec.md §4.5) the
// way the original's mio-based arch/linux/net.rs does: a non-blocking
// socket registered with epoll under edge-triggered, oneshot semantics
// (EPOLLIN|EPOLLET|EPOLLONESHOT), re-armed after every event. This is the
// Go-native reading of that design — golang.org/x/sys/unix gives direct
// access to the same epoll_create1/epoll_ctl/epoll_wait syscalls, and
// runtime.LockOSThread plus platform.Pin pin the OS thread the way the
// original pins an mio poller thread. Grounded in
// other_examples/...ublk.../internal-queue-runner.go.go, which pairs
// LockOSThread with unix.SchedSetaffinity in exactly this shape.

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/sashcache/sashcache/internal/platform"
)

// run pins the calling goroutine's OS thread to w.core and enters the
// readiness loop appropriate to cfg.transport.
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
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("worker %d: socket: %w", w.id, err)
	}
	defer unix.Close(fd)

	addr := &unix.SockaddrInet4{Port: w.port}
	if err := unix.Bind(fd, addr); err != nil {
		return fmt.Errorf("worker %d: bind :%d: %w", w.id, w.port, err)
	}

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return fmt.Errorf("worker %d: epoll_create1: %w", w.id, err)
	}
	defer unix.Close(epfd)

	if err := w.epollArm(epfd, fd); err != nil {
		return err
	}

	events := make([]unix.EpollEvent, 1)
	buf := make([]byte, maxDatagramSize)
	for {
		nev, err := unix.EpollWait(epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("worker %d: epoll_wait: %w", w.id, err)
		}
		if nev == 0 {
			continue
		}

		// Exactly one recv per readiness event; re-arming below reports the
		// socket again if more datagrams are queued.
		n, from, err := unix.Recvfrom(fd, buf, 0)
		if err != nil && err != unix.EAGAIN {
			return fmt.Errorf("worker %d: recvfrom: %w", w.id, err)
		}
		if err == nil {
			out, ok := w.handle(buf, n)
			if ok {
				_ = unix.Sendto(fd, out, 0, from)
			}
		}

		if err := w.epollArm(epfd, fd); err != nil {
			return err
		}
	}
}

func (w *Worker) epollArm(epfd, fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLET | unix.EPOLLONESHOT, Fd: int32(fd)}
	err := unix.EpollCtl(epfd, unix.EPOLL_CTL_MOD, fd, &ev)
	if err == unix.ENOENT {
		err = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev)
	}
	if err != nil {
		return fmt.Errorf("worker %d: epoll_ctl: %w", w.id, err)
	}
	return nil
}

// runTCP accepts up to cfg.tcpConnectionsPerPort streams before entering the
// readiness loop, then multiplexes reads across all of them via epoll
// (spec.md §4.5 "TCP mode differs only in accept handling").
func (w *Worker) runTCP(cfg *config) error {
	listenFd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return fmt.Errorf("worker %d: socket: %w", w.id, err)
	}
	defer unix.Close(listenFd)

	if err := unix.SetsockoptInt(listenFd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("worker %d: setsockopt SO_REUSEADDR: %w", w.id, err)
	}
	if err := unix.Bind(listenFd, &unix.SockaddrInet4{Port: w.port}); err != nil {
		return fmt.Errorf("worker %d: bind :%d: %w", w.id, w.port, err)
	}
	if err := unix.Listen(listenFd, cfg.tcpConnectionsPerPort); err != nil {
		return fmt.Errorf("worker %d: listen: %w", w.id, err)
	}

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return fmt.Errorf("worker %d: epoll_create1: %w", w.id, err)
	}
	defer unix.Close(epfd)

	conns := make(map[int]struct{})
	for len(conns) < cfg.tcpConnectionsPerPort {
		connFd, _, err := unix.Accept(listenFd)
		if err != nil {
			return fmt.Errorf("worker %d: accept: %w", w.id, err)
		}
		if err := unix.SetNonblock(connFd, true); err != nil {
			unix.Close(connFd)
			return fmt.Errorf("worker %d: set nonblock: %w", w.id, err)
		}
		if err := w.epollArm(epfd, connFd); err != nil {
			unix.Close(connFd)
			return err
		}
		conns[connFd] = struct{}{}
	}

	events := make([]unix.EpollEvent, len(conns))
	buf := make([]byte, maxDatagramSize)
	for len(conns) > 0 {
		nev, err := unix.EpollWait(epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("worker %d: epoll_wait: %w", w.id, err)
		}
		for i := 0; i < nev; i++ {
			connFd := int(events[i].Fd)
			n, err := unix.Read(connFd, buf)
			if n == 0 || (err != nil && err != unix.EAGAIN) {
				// Peer closed (spec.md §4.5 "Terminated" transition, TCP only).
				unix.Close(connFd)
				delete(conns, connFd)
				continue
			}
			if err == unix.EAGAIN {
				_ = w.epollArm(epfd, connFd)
				continue
			}
			out, ok := w.handle(buf, n)
			if ok {
				_, _ = unix.Write(connFd, out)
			}
			_ = w.epollArm(epfd, connFd)
		}
	}
	return nil
}
