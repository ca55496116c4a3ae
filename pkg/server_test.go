package cache

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewAllocatesOneWorkerPerThread(t *testing.T) {
	srv, err := New(WithThreads(3), WithCapacity(64), WithPort(16000))
	require.NoError(t, err)
	require.Len(t, srv.workers, 3)

	ports := make(map[int]bool)
	for _, w := range srv.workers {
		require.False(t, ports[w.port], "two workers must not share a port")
		ports[w.port] = true
	}
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	_, err := New(WithThreads(1), WithCapacity(0))
	require.Error(t, err)
}

func TestSnapshotReflectsWorkerState(t *testing.T) {
	srv, err := New(WithThreads(2), WithCapacity(64), WithPort(16010))
	require.NoError(t, err)

	want := []WorkerSnapshot{
		{ID: 0, Core: srv.workers[0].core, Port: 16010, Len: 0, Capacity: srv.workers[0].store.CapacityAtomic(), Rehashes: 0},
		{ID: 1, Core: srv.workers[1].core, Port: 16011, Len: 0, Capacity: srv.workers[1].store.CapacityAtomic(), Rehashes: 0},
	}

	got := srv.Snapshot()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotDoesNotMutateWorkers(t *testing.T) {
	srv, err := New(WithThreads(1), WithCapacity(64), WithPort(16020))
	require.NoError(t, err)

	before := srv.Snapshot()
	after := srv.Snapshot()
	require.True(t, cmp.Equal(before, after))
}
