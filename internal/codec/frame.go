// Package codec implements the memcached UDP wire format: an 8-byte binary
// frame header followed by an ASCII body, for the `get`/`set` verb subset
// only (spec.md §4.3). Decode and encode both operate in place on a single
// caller-owned buffer — no packet ever causes a second allocation in the hot
// path, mirroring the teacher's own "reuse the arena, never the GC" ethos
// from internal/arena and pkg/cache.go, translated here to "reuse the
// datagram buffer, never the allocator."
//
// © 2025 sashcache authors. MIT License.
package codec

// HeaderLen is the size in bytes of the frame header that precedes every
// request and response body (spec.md §4.3).
const HeaderLen = 8

// Header is the decoded form of the 8-byte frame preamble: four big-endian
// uint16 fields at offsets 0, 2, 4, 6.
type Header struct {
	RequestID     uint16
	SeqNo         uint16
	DatagramTotal uint16
	Reserved      uint16
}

// putHeader writes h into dst[0:8] in big-endian order. dst must have a
// length of at least HeaderLen.
func putHeader(dst []byte, h Header) {
	dst[0] = byte(h.RequestID >> 8)
	dst[1] = byte(h.RequestID)
	dst[2] = byte(h.SeqNo >> 8)
	dst[3] = byte(h.SeqNo)
	dst[4] = byte(h.DatagramTotal >> 8)
	dst[5] = byte(h.DatagramTotal)
	dst[6] = byte(h.Reserved >> 8)
	dst[7] = byte(h.Reserved)
}

// parseHeader reads the first HeaderLen bytes of src as a Header. Callers
// must ensure len(src) >= HeaderLen.
func parseHeader(src []byte) Header {
	return Header{
		RequestID:     uint16(src[0])<<8 | uint16(src[1]),
		SeqNo:         uint16(src[2])<<8 | uint16(src[3]),
		DatagramTotal: uint16(src[4])<<8 | uint16(src[5]),
		Reserved:      uint16(src[6])<<8 | uint16(src[7]),
	}
}

// responseHeader is the frame header every response carries: the request's
// id echoed back, seq_no=0, datagram_total=1, reserved=0 (spec.md §4.3
// "Responses" and §8 "Frame header echo").
func responseHeader(requestID uint16) Header {
	return Header{RequestID: requestID, SeqNo: 0, DatagramTotal: 1, Reserved: 0}
}
