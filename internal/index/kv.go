package index

import "fmt"

// MaxKeyLen and MaxValueLen bound the inline, fixed-capacity buffers used
// for keys and values (spec.md §3: Key ≤ 250 bytes, Value payload ≤ 1024
// bytes). Using arrays instead of slices keeps Key and Value comparable
// and allocation-free to construct and copy — the Go analogue of the
// original sashstore's `ArrayVec<[u8; N]>` inline buffers.
const (
	MaxKeyLen   = 250
	MaxValueLen = 1024
)

// Key is a bounded, inline byte buffer. Two Keys compare equal with == iff
// they hold the same length and the same leading bytes — the unused tail
// of buf is always zeroed because every Key is constructed fresh by value,
// never mutated in place.
type Key struct {
	buf [MaxKeyLen]byte
	n   uint16
}

// NewKey copies b into a fresh, fixed-capacity Key. It is the only way to
// construct a non-zero Key, so equality via == is always safe: the unused
// tail of buf is the zero value for every Key ever produced.
func NewKey(b []byte) (Key, error) {
	var k Key
	if len(b) > MaxKeyLen {
		return k, fmt.Errorf("index: key length %d exceeds max %d", len(b), MaxKeyLen)
	}
	copy(k.buf[:], b)
	k.n = uint16(len(b))
	return k, nil
}

// Bytes returns a read-only view of the key's content.
func (k Key) Bytes() []byte { return k.buf[:k.n] }

// Len returns the key's length in bytes.
func (k Key) Len() int { return int(k.n) }

// Value pairs the memcached flags with a bounded, inline payload buffer.
type Value struct {
	Flags uint32
	buf   [MaxValueLen]byte
	n     uint32
}

// NewValue copies payload into a fresh, fixed-capacity Value.
func NewValue(flags uint32, payload []byte) (Value, error) {
	var v Value
	if len(payload) > MaxValueLen {
		return v, fmt.Errorf("index: value length %d exceeds max %d", len(payload), MaxValueLen)
	}
	v.Flags = flags
	copy(v.buf[:], payload)
	v.n = uint32(len(payload))
	return v, nil
}

// Payload returns a read-only view of the value's content.
func (v Value) Payload() []byte { return v.buf[:v.n] }

// Len returns the payload length in bytes.
func (v Value) Len() int { return int(v.n) }
