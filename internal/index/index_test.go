package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T, s string) Key {
	t.Helper()
	k, err := NewKey([]byte(s))
	require.NoError(t, err)
	return k
}

func TestInsertGetRoundTrip(t *testing.T) {
	ix := WithCapacity[Key, int](16)

	k := mustKey(t, "foo")
	_, existed := ix.Insert(k, 42)
	require.False(t, existed)

	got, ok := ix.Get(k)
	require.True(t, ok)
	require.Equal(t, 42, got)
	require.Equal(t, 1, ix.Len())

	prior, existed := ix.Insert(k, 43)
	require.True(t, existed)
	require.Equal(t, 42, prior)
	require.Equal(t, 1, ix.Len(), "overwrite must not change len")

	got, ok = ix.Get(k)
	require.True(t, ok)
	require.Equal(t, 43, got)
}

func TestGetMiss(t *testing.T) {
	ix := WithCapacity[Key, int](16)
	_, ok := ix.Get(mustKey(t, "absent"))
	require.False(t, ok)
}

func TestDistinctKeysAllRetrievable(t *testing.T) {
	ix := WithCapacity[Key, int](16)
	const n = 500
	for i := 0; i < n; i++ {
		k := mustKey(t, fmt.Sprintf("key-%d", i))
		ix.Insert(k, i)
	}
	require.Equal(t, n, ix.Len())
	for i := 0; i < n; i++ {
		k := mustKey(t, fmt.Sprintf("key-%d", i))
		v, ok := ix.Get(k)
		require.True(t, ok, "key-%d should be present", i)
		require.Equal(t, i, v)
	}
}

func TestLoadFactorInvariant(t *testing.T) {
	ix := WithCapacity[Key, int](16)
	for i := 0; i < 1000; i++ {
		ix.Insert(mustKey(t, fmt.Sprintf("k%d", i)), i)
		load := float64(ix.Len()) / float64(ix.Capacity())
		require.LessOrEqual(t, load, 0.7+1e-9)
	}
}

func TestRehashTriggersAndPreservesKeys(t *testing.T) {
	ix := WithCapacity[Key, int](16)
	require.Equal(t, 16, ix.Capacity())

	for i := 0; i < 20; i++ {
		ix.Insert(mustKey(t, fmt.Sprintf("rk%d", i)), i)
	}

	require.GreaterOrEqual(t, ix.Capacity(), 32)
	for i := 0; i < 20; i++ {
		v, ok := ix.Get(mustKey(t, fmt.Sprintf("rk%d", i)))
		require.True(t, ok)
		require.Equal(t, i, v)
	}

	history := ix.RehashHistory()
	require.NotEmpty(t, history)
	require.Equal(t, 16, history[0].OldCapacity)
}

func TestRemoveThenReinsert(t *testing.T) {
	ix := WithCapacity[Key, int](16)
	k := mustKey(t, "removable")
	ix.Insert(k, 1)
	require.True(t, ix.Remove(k))
	_, ok := ix.Get(k)
	require.False(t, ok)
	require.Equal(t, 0, ix.Len())

	_, existed := ix.Insert(k, 2)
	require.False(t, existed)
	v, ok := ix.Get(k)
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestContainsKey(t *testing.T) {
	ix := WithCapacity[Key, int](16)
	k := mustKey(t, "present")
	require.False(t, ix.ContainsKey(k))
	ix.Insert(k, 7)
	require.True(t, ix.ContainsKey(k))
}

func TestProbeTerminationAtFixedCapacity(t *testing.T) {
	// MaxLoad just below 1.0 (1.0 itself is out of range and falls back to
	// the 0.7 default) keeps the rehash trigger from firing until the table
	// is full, to exercise the raw probe coverage guarantee directly:
	// inserting Capacity-1 distinct keys into a table built with
	// DefaultProbe must succeed without panicking (spec.md §8 "Probe
	// termination").
	ix := WithCapacityAndParameters[Key, int](16, Parameters[Key, int]{MaxLoad: 0.999999})
	cap := ix.Capacity()
	for i := 0; i < cap-1; i++ {
		ix.Insert(mustKey(t, fmt.Sprintf("p%d", i)), i)
	}
	require.Equal(t, cap-1, ix.Len())
}
