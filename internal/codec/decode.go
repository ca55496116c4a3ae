package codec

import (
	"errors"
	"strconv"

	"github.com/sashcache/sashcache/internal/unsafeview"
)

// Decode errors (spec.md §4.3 "Errors"). Any malformed numeric field also
// surfaces InvalidOpCode, per spec — there is no separate "bad number"
// error class.
var (
	ErrInvalidOpCode = errors.New("codec: invalid op code")
	ErrUnexpectedEOF = errors.New("codec: unexpected end of frame")
)

// Decoder consumes a single datagram buffer and yields at most one
// ClientOp. It holds no state beyond the buffer it was constructed with and
// performs no allocation: Key/Value on the returned ClientOp are subslices
// of buf (spec.md §4.3 "Buffer discipline").
type Decoder struct {
	buf []byte
}

// NewDecoder wraps buf, the full received datagram (header + body).
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Decode parses the frame header and ASCII body. On any error, the returned
// ClientOp is the zero value and must be ignored.
func (d *Decoder) Decode() (ClientOp, error) {
	if len(d.buf) < HeaderLen {
		return ClientOp{}, ErrUnexpectedEOF
	}
	hdr := parseHeader(d.buf)
	body := d.buf[HeaderLen:]

	switch {
	case hasPrefix(body, "get "):
		return decodeGet(hdr.RequestID, body[len("get "):])
	case hasPrefix(body, "set "):
		return decodeSet(hdr.RequestID, body[len("set "):])
	default:
		return ClientOp{}, ErrInvalidOpCode
	}
}

func hasPrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	return unsafeview.BytesToString(b[:len(prefix)]) == prefix
}

// decodeGet parses "<key>\r\n" (the "get " prefix already consumed).
func decodeGet(requestID uint16, rest []byte) (ClientOp, error) {
	key, _, ok := cutCRLF(rest)
	if !ok {
		return ClientOp{}, ErrUnexpectedEOF
	}
	return ClientOp{Kind: OpGet, RequestID: requestID, Key: key}, nil
}

// decodeSet parses "<key> <flags> <exptime> <bytes>\r\n<data>\r\n" (the
// "set " prefix already consumed). exptime is accepted and discarded — the
// cache has no eviction/TTL policy (spec.md §1 Non-goals).
func decodeSet(requestID uint16, rest []byte) (ClientOp, error) {
	headerLine, afterHeader, ok := cutCRLF(rest)
	if !ok {
		return ClientOp{}, ErrUnexpectedEOF
	}

	key, tail, ok := cutSpace(headerLine)
	if !ok {
		return ClientOp{}, ErrInvalidOpCode
	}
	flagsField, tail, ok := cutSpace(tail)
	if !ok {
		return ClientOp{}, ErrInvalidOpCode
	}
	// exptime occupies the next field; its value is never consulted.
	_, bytesField, ok := cutSpace(tail)
	if !ok {
		// No trailing space before <bytes> means tail itself is the field.
		bytesField = tail
	}

	flags, err := parseUint32(flagsField)
	if err != nil {
		return ClientOp{}, ErrInvalidOpCode
	}
	n, err := parseUint32(bytesField)
	if err != nil {
		return ClientOp{}, ErrInvalidOpCode
	}

	if uint64(n)+2 > uint64(len(afterHeader)) {
		return ClientOp{}, ErrUnexpectedEOF
	}
	value := afterHeader[:n]
	trailer := afterHeader[n:]
	if len(trailer) < 2 || trailer[0] != '\r' || trailer[1] != '\n' {
		return ClientOp{}, ErrUnexpectedEOF
	}

	return ClientOp{Kind: OpSet, RequestID: requestID, Key: key, Flags: flags, Value: value}, nil
}

// cutCRLF splits b at the first "\r\n", returning the content before it and
// the remainder after it. ok is false if no CRLF is found.
func cutCRLF(b []byte) (before, after []byte, ok bool) {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return b[:i], b[i+2:], true
		}
	}
	return nil, nil, false
}

// cutSpace splits b at the first ' ', returning the token before it and the
// remainder after it. ok is false if no space is found.
func cutSpace(b []byte) (token, rest []byte, ok bool) {
	for i, c := range b {
		if c == ' ' {
			return b[:i], b[i+1:], true
		}
	}
	return nil, nil, false
}

// parseUint32 parses an ASCII decimal field without copying it to a new
// string (internal/unsafeview.BytesToString borrows b's backing array).
func parseUint32(b []byte) (uint32, error) {
	if len(b) == 0 {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseUint(unsafeview.BytesToString(b), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
