package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoNodeTopo() Topology {
	return Topology{Nodes: []NumaNode{
		{ID: 0, Cores: []int{0, 1, 2, 3}},
		{ID: 1, Cores: []int{4, 5, 6, 7}},
	}}
}

func TestAllocateSequentialFillsOneNodeFirst(t *testing.T) {
	cores, err := Allocate(twoNodeTopo(), StrategySequential, 5)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, cores)
}

func TestAllocateInterleaveRoundRobins(t *testing.T) {
	cores, err := Allocate(twoNodeTopo(), StrategyInterleave, 4)
	require.NoError(t, err)
	require.Equal(t, []int{0, 4, 1, 5}, cores)
}

func TestAllocateCardinalityMatchesRequest(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		cores, err := Allocate(twoNodeTopo(), StrategyInterleave, n)
		require.NoError(t, err)
		require.Len(t, cores, n)
	}
}

func TestAllocateFailsWhenTopologyTooSmall(t *testing.T) {
	_, err := Allocate(twoNodeTopo(), StrategySequential, 100)
	require.Error(t, err)
}

func TestAllocateRejectsZero(t *testing.T) {
	_, err := Allocate(twoNodeTopo(), StrategySequential, 0)
	require.Error(t, err)
}
