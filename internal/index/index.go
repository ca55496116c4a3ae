// Package index implements the open-addressing hash table at the heart of
// sashcache: a pluggable probe sequence, pluggable hasher, configurable
// growth policy, and load-factor-triggered rehash over fixed-capacity
// inline keys/values (spec.md §3–§4.2). It is grounded in
// original_source/src/indexmap (the sashstore Rust `Index<K,V,S>`),
// translated into Go generics and given the doc-comment texture of the
// teacher repo's internal packages.
//
// © 2025 sashcache authors. MIT License.
package index

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sashcache/sashcache/internal/hash"
)

// Keyed is the constraint every key type used with Index must satisfy: it
// must be comparable (so == can detect equal keys within a slot) and
// expose its raw bytes (so the Index can hash it without knowing its
// internal layout). Key (kv.go) is the concrete type the Store uses; the
// constraint exists so internal/index stays independent of the memcached
// wire format.
type Keyed interface {
	comparable
	Bytes() []byte
}

// slotState tags the three states a slot can be in (spec.md §3).
type slotState uint8

const (
	stateEmpty slotState = iota
	stateOccupied
	stateTombstone
)

type slot[K Keyed, V any] struct {
	state slotState
	key   K
	val   V
}

// Parameters bundles every pluggable knob the Index accepts (spec.md §3
// "Parameters"). All fields have sane defaults applied by
// WithCapacity/WithCapacityAndParameters when left zero.
type Parameters[K Keyed, V any] struct {
	// MaxLoad is the load factor threshold that triggers a rehash before
	// an insert would exceed it. Must be in (0, 1). Default 0.7.
	MaxLoad float64

	// Growth is the capacity multiplier applied on rehash. Must be >= 1.
	// Default 2.0.
	Growth float64

	// Probe computes the i-th candidate slot offset for a hash. Default
	// DefaultProbe (triangular-number quadratic, see probe.go).
	Probe ProbeFn

	// HasherFactory produces a fresh Hasher per lookup/insert. Default
	// hash.FNV1Factory{}.
	HasherFactory hash.Factory
}

func (p *Parameters[K, V]) setDefaults() {
	if p.MaxLoad <= 0 || p.MaxLoad >= 1 {
		p.MaxLoad = 0.7
	}
	if p.Growth < 1 {
		p.Growth = 2.0
	}
	if p.Probe == nil {
		p.Probe = DefaultProbe
	}
	if p.HasherFactory == nil {
		p.HasherFactory = hash.FNV1Factory{}
	}
}

// Index is an open-addressing hash table mapping K to V. It is NOT safe
// for concurrent use (spec.md §1 Non-goals: "no concurrent access to a
// single Index") — the Worker that owns an Index is its only mutator.
//
// The owning goroutine mirrors length/capacity/rehash-count into the
// atomic* fields below on every mutation. Those three fields are the only
// part of an Index safe to read from a second goroutine (e.g. an HTTP
// debug handler snapshotting a running Worker) — everything else,
// including RehashHistory's event detail, must only be touched by the
// owning goroutine.
type Index[K Keyed, V any] struct {
	slots  []slot[K, V]
	length int
	params Parameters[K, V]
	log    rehashLog

	atomicLen      atomic.Int64
	atomicCap      atomic.Int64
	atomicRehashes atomic.Int64
}

// WithCapacity constructs an Index whose backing array holds at least n
// slots, with default Parameters.
func WithCapacity[K Keyed, V any](n int) *Index[K, V] {
	return WithCapacityAndParameters[K, V](n, Parameters[K, V]{})
}

// WithCapacityAndParameters constructs an Index with explicit Parameters.
// Unset (zero-value) fields fall back to their documented defaults.
func WithCapacityAndParameters[K Keyed, V any](n int, params Parameters[K, V]) *Index[K, V] {
	params.setDefaults()
	if n < 1 {
		n = 1
	}
	cap := adjustCapacity(uint64(n))
	ix := &Index[K, V]{
		slots:  make([]slot[K, V], cap),
		params: params,
	}
	ix.atomicCap.Store(int64(cap))
	return ix
}

// Len returns the number of live (Occupied) entries. Callable only from
// the owning goroutine; use LenAtomic from any other goroutine.
func (ix *Index[K, V]) Len() int { return ix.length }

// Capacity returns the current size of the backing array. Callable only
// from the owning goroutine; use CapacityAtomic from any other goroutine.
func (ix *Index[K, V]) Capacity() int { return len(ix.slots) }

// RehashHistory returns the most recent rehash events, oldest first (see
// rehashlog.go). Bounded and purely diagnostic. Callable only from the
// owning goroutine; use RehashCountAtomic from any other goroutine.
func (ix *Index[K, V]) RehashHistory() []RehashEvent { return ix.log.snapshot() }

// LenAtomic is a cross-goroutine-safe snapshot of Len, mirrored by the
// owning goroutine on every Insert/Remove. Safe to call while the owning
// goroutine concurrently mutates the Index (e.g. from a debug-endpoint
// handler).
func (ix *Index[K, V]) LenAtomic() int { return int(ix.atomicLen.Load()) }

// CapacityAtomic is a cross-goroutine-safe snapshot of Capacity, mirrored
// by the owning goroutine on every rehash.
func (ix *Index[K, V]) CapacityAtomic() int { return int(ix.atomicCap.Load()) }

// RehashCountAtomic is a cross-goroutine-safe count of completed rehashes,
// mirrored by the owning goroutine on every rehash. The full RehashEvent
// detail (RehashHistory) is not made cross-goroutine-safe since nothing
// outside the owning Worker consumes more than the count.
func (ix *Index[K, V]) RehashCountAtomic() int { return int(ix.atomicRehashes.Load()) }

func (ix *Index[K, V]) hashOf(k K) uint64 {
	return hash.Sum64(ix.params.HasherFactory, k.Bytes())
}

// locate walks the probe sequence for hashVal starting at step 0. It
// returns the index of the slot holding an Occupied entry matching key (if
// any), and separately the first Empty-or-Tombstone slot seen along the
// way (usable for insertion). found is true only for the "existing entry"
// case.
func (ix *Index[K, V]) locate(key K, hashVal uint64) (existingIdx int, found bool, insertIdx int, hasInsertIdx bool) {
	capacity := uint64(len(ix.slots))
	for i := uint64(0); i < capacity; i++ {
		idx := int(ix.params.Probe(hashVal, i) % capacity)
		s := &ix.slots[idx]
		switch s.state {
		case stateEmpty:
			if !hasInsertIdx {
				insertIdx, hasInsertIdx = idx, true
			}
			return 0, false, insertIdx, hasInsertIdx
		case stateTombstone:
			if !hasInsertIdx {
				insertIdx, hasInsertIdx = idx, true
			}
		case stateOccupied:
			if s.key == key {
				return idx, true, 0, false
			}
		}
	}
	// Probing exhausted capacity steps without terminating at an Empty
	// slot: either the probe function does not enumerate a permutation of
	// slot indices for this capacity, or the table is entirely full of
	// Occupied/Tombstone slots with no match. Both are programming errors
	// per spec.md §4.2.
	panic(fmt.Sprintf("index: probe sequence exhausted after %d steps without an empty slot (capacity=%d)", capacity, capacity))
}

// Get looks up key without mutating the Index (spec.md §4.2).
func (ix *Index[K, V]) Get(key K) (V, bool) {
	hv := ix.hashOf(key)
	idx, found, _, _ := ix.locate(key, hv)
	if !found {
		var zero V
		return zero, false
	}
	return ix.slots[idx].val, true
}

// ContainsKey is the boolean form of Get.
func (ix *Index[K, V]) ContainsKey(key K) bool {
	_, ok := ix.Get(key)
	return ok
}

// Insert writes (key, val). If key was already Occupied, its value is
// overwritten and the prior value is returned with ok=true. Otherwise a
// fresh slot is claimed (rehashing first if the post-insert load factor
// would exceed MaxLoad) and ok=false.
func (ix *Index[K, V]) Insert(key K, val V) (prior V, ok bool) {
	hv := ix.hashOf(key)
	if idx, found, _, _ := ix.locate(key, hv); found {
		prior = ix.slots[idx].val
		ix.slots[idx].val = val
		return prior, true
	}

	if float64(ix.length+1)/float64(len(ix.slots)) > ix.params.MaxLoad {
		ix.rehash()
	}

	_, _, insertIdx, hasInsertIdx := ix.locate(key, hv)
	if !hasInsertIdx {
		panic("index: no empty or tombstone slot found for insert after rehash")
	}
	ix.slots[insertIdx] = slot[K, V]{state: stateOccupied, key: key, val: val}
	ix.length++
	ix.atomicLen.Store(int64(ix.length))
	return prior, false
}

// Remove marks key's slot (if any) as a Tombstone. Returns whether key was
// present. Not used by the memcached get/set subset but kept for parity
// with spec.md §4.2 and exercised by index tests.
func (ix *Index[K, V]) Remove(key K) bool {
	hv := ix.hashOf(key)
	idx, found, _, _ := ix.locate(key, hv)
	if !found {
		return false
	}
	var zeroK K
	var zeroV V
	ix.slots[idx] = slot[K, V]{state: stateTombstone, key: zeroK, val: zeroV}
	ix.length--
	ix.atomicLen.Store(int64(ix.length))
	return true
}

// rehash allocates a fresh backing array sized adjustCapacity(ceil(cap *
// growth)), migrates every Occupied slot (dropping tombstones), and
// atomically swaps it in: ix.slots only ever points at a fully-populated
// array, so external observers (none, per the single-mutator invariant,
// but future callers of a read-only snapshot) never see a partially
// migrated state.
func (ix *Index[K, V]) rehash() {
	oldCap := len(ix.slots)
	newCap := adjustCapacity(uint64(ceilFloat(float64(oldCap) * ix.params.Growth)))
	if newCap <= uint64(oldCap) {
		newCap = adjustCapacity(uint64(oldCap) + 1)
	}

	fresh := make([]slot[K, V], newCap)
	migrated := 0
	for _, s := range ix.slots {
		if s.state != stateOccupied {
			continue
		}
		hv := ix.hashOf(s.key)
		placed := false
		for i := uint64(0); i < newCap; i++ {
			idx := int(ix.params.Probe(hv, i) % newCap)
			if fresh[idx].state == stateEmpty {
				fresh[idx] = slot[K, V]{state: stateOccupied, key: s.key, val: s.val}
				placed = true
				break
			}
		}
		if !placed {
			panic("index: rehash could not place migrated key — probe function does not cover new capacity")
		}
		migrated++
	}

	ix.slots = fresh
	ix.log.record(RehashEvent{
		OldCapacity:  oldCap,
		NewCapacity:  int(newCap),
		KeysMigrated: migrated,
		At:           time.Now(),
	})
	ix.atomicCap.Store(int64(newCap))
	ix.atomicRehashes.Add(1)
}

func ceilFloat(f float64) int {
	i := int(f)
	if float64(i) < f {
		i++
	}
	return i
}
