// Package unsafeview centralises **all** unavoidable usage of the `unsafe`
// standard-library package so the rest of sashcache stays clean and easier
// to audit. Every helper is documented with clear pre-/post-conditions.
//
// ⚠️  These helpers deliberately break the Go memory-safety model for the
// sake of zero-allocation conversions on the request/response hot path. Use
// ONLY inside this repository; they are not part of the public API.
//
// © 2025 sashcache authors. MIT License.
package unsafeview

import "unsafe"

/* -------------------------------------------------------------------------
   1. Zero-copy string/[]byte conversions
   ------------------------------------------------------------------------- */

// BytesToString converts a byte slice to a string without allocating. The
// caller must guarantee that b is never mutated for the lifetime of the
// returned string — the codec only ever calls this on sub-windows of a
// request buffer it is done writing to for the remainder of the decode.
//
// Typical use inside sashcache: viewing the ASCII decimal fields (flags,
// byte count) of a `set` body as a string so strconv.ParseUint can run
// without copying.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes re-interprets string data as a byte slice without copying.
// The slice MUST remain read-only; writing to it mutates immutable string
// storage and is undefined behavior.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	strHdr := (*[2]uintptr)(unsafe.Pointer(&s))
	return unsafe.Slice((*byte)(unsafe.Pointer(strHdr[0])), strHdr[1])
}

/* -------------------------------------------------------------------------
   2. Alignment / sizing helpers
   ------------------------------------------------------------------------- */

// AlignUp rounds x up to the nearest multiple of align, which must be a
// power of two. (The index's capacity-growth policy uses NextPowerOfTwo,
// not AlignUp.)
func AlignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}

// IsPowerOfTwo returns true if x is a power of two (exactly one bit set).
func IsPowerOfTwo(x uintptr) bool {
	return x != 0 && (x&(x-1)) == 0
}

// NextPowerOfTwo returns the smallest power of two >= x (x > 0).
func NextPowerOfTwo(x uintptr) uintptr {
	if x == 0 {
		return 1
	}
	if IsPowerOfTwo(x) {
		return x
	}
	n := uintptr(1)
	for n < x {
		n <<= 1
	}
	return n
}
