//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

var nodeDirRe = regexp.MustCompile(`^node(\d+)$`)

// Discover reads /sys/devices/system/node/node*/cpulist to build the host's
// NUMA topology. If sysfs is unreadable (containers, non-standard kernels)
// it falls back to a single synthetic node spanning runtime.NumCPU() cores,
// matching the portable behavior of topology_fallback.go.
func Discover() Topology {
	const nodeRoot = "/sys/devices/system/node"
	entries, err := os.ReadDir(nodeRoot)
	if err != nil {
		return singleNodeFallback()
	}

	var nodes []NumaNode
	for _, e := range entries {
		m := nodeDirRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		nodeID, _ := strconv.Atoi(m[1])
		cores, err := readCPUList(filepath.Join(nodeRoot, e.Name(), "cpulist"))
		if err != nil || len(cores) == 0 {
			continue
		}
		nodes = append(nodes, NumaNode{ID: nodeID, Cores: cores})
	}
	if len(nodes) == 0 {
		return singleNodeFallback()
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return Topology{Nodes: nodes}
}

func singleNodeFallback() Topology {
	n := runtime.NumCPU()
	cores := make([]int, n)
	for i := range cores {
		cores[i] = i
	}
	return Topology{Nodes: []NumaNode{{ID: 0, Cores: cores}}}
}

// readCPUList parses the kernel's cpulist format: comma-separated ids and
// ranges, e.g. "0-3,8,10-11".
func readCPUList(path string) ([]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cores []int
	for _, field := range strings.Split(strings.TrimSpace(string(raw)), ",") {
		if field == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(field, "-"); ok {
			loN, err := strconv.Atoi(lo)
			if err != nil {
				continue
			}
			hiN, err := strconv.Atoi(hi)
			if err != nil {
				continue
			}
			for c := loN; c <= hiN; c++ {
				cores = append(cores, c)
			}
		} else {
			c, err := strconv.Atoi(field)
			if err != nil {
				continue
			}
			cores = append(cores, c)
		}
	}
	return cores, nil
}
