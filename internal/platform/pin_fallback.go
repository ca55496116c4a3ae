//go:build !linux

package platform

// Pin is a no-op on platforms without a sched_setaffinity equivalent
// reachable from golang.org/x/sys/unix. Workers still call
// runtime.LockOSThread() so at least thread identity is stable.
func Pin(coreID int) error { return nil }
