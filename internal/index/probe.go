package index

import "github.com/sashcache/sashcache/internal/unsafeview"

// ProbeFn computes the i-th candidate slot offset for a given key hash. The
// Index reduces the result modulo the current capacity only at the moment
// of indexing (spec.md §4.2 "Numeric semantics") — ProbeFn itself works in
// unbounded uint64 space.
type ProbeFn func(hash uint64, i uint64) uint64

// DefaultProbe implements the triangular-number quadratic probe
// hash + i*(i+1)/2. This is the proven variant that visits every residue
// class modulo a power-of-two capacity exactly once as i ranges 0..cap-1
// (Knuth, TAOCP vol.3 §6.4) — unlike the naive `hash + i + i*i` form
// (2*triangular(i)) quoted by the original sashstore source, which only
// reaches half the residues mod a power-of-two table (doubling is not a
// bijection mod 2^k) and therefore cannot satisfy the "visits a permutation
// of slot indices" invariant spec.md §4.2 requires. See DESIGN.md for the
// worked counterexample. Implementations that need bit-for-bit parity with
// the original probe formula instead of a coverage guarantee can supply
// LegacyProbe via WithProbe.
func DefaultProbe(hash uint64, i uint64) uint64 {
	return hash + i*(i+1)/2
}

// LegacyProbe is the literal `hash + i + i*i` formula from the original
// sashstore source. It is NOT guaranteed to visit every slot for any fixed
// capacity discipline and exists only for callers who want faithful replay
// of the original probe sequence and are willing to size capacity generously
// (so that rehash trips long before coverage gaps would be observed).
func LegacyProbe(hash uint64, i uint64) uint64 {
	return hash + i + i*i
}

// adjustCapacity rounds n up to a power of two, which is what DefaultProbe
// needs to guarantee full coverage.
func adjustCapacity(n uint64) uint64 {
	if n < 1 {
		n = 1
	}
	return uint64(unsafeview.NextPowerOfTwo(uintptr(n)))
}
