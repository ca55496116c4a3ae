//go:build linux

package platform

import "golang.org/x/sys/unix"

// Pin sets the calling OS thread's CPU affinity to coreID. Callers MUST
// have already called runtime.LockOSThread() — affinity is a property of
// the OS thread, and Go only guarantees a fixed OS thread for the lifetime
// of the goroutine between LockOSThread/UnlockOSThread (grounded in
// other_examples' ublk queue runner, which pairs LockOSThread with
// unix.SchedSetaffinity the same way).
func Pin(coreID int) error {
	var mask unix.CPUSet
	mask.Set(coreID)
	return unix.SchedSetaffinity(0, &mask)
}
