//go:build !linux

package platform

import "runtime"

// Discover on non-Linux platforms has no sysfs to read, so it reports a
// single synthetic NUMA node spanning runtime.NumCPU() cores. Sequential and
// Interleave strategies then agree (only one node exists).
func Discover() Topology {
	n := runtime.NumCPU()
	cores := make([]int, n)
	for i := range cores {
		cores[i] = i
	}
	return Topology{Nodes: []NumaNode{{ID: 0, Cores: cores}}}
}
