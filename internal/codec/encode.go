package codec

import "strconv"

// responseTerminator is the literal suffix every VALUE response carries
// after the payload's CRLF: a single space, then "END\r\n". The leading
// space is kept so replies match the reference wire bytes exactly
// (" END\r\n", not "END\r\n"; spec.md §4.3/§8 scenario 1).
const responseTerminator = " END\r\n"

// EncodeInto writes op's wire representation into buf[:0], returning the
// extended slice. buf's backing array is reused — the caller passes the
// same buffer Decode just consumed, guaranteeing no allocation for
// responses within the 1500-byte datagram budget (spec.md §4.3 "Buffer
// discipline", §8 "Buffer reuse"). Returns nil, false for OpNoReply: no
// packet is sent (spec.md §3, §7).
func EncodeInto(buf []byte, op ServerOp) ([]byte, bool) {
	if op.Kind == OpNoReply {
		return nil, false
	}

	out := buf[:0]
	var hdr [HeaderLen]byte
	putHeader(hdr[:], responseHeader(op.RequestID))
	out = append(out, hdr[:]...)

	switch op.Kind {
	case OpValue:
		out = append(out, "VALUE "...)
		out = append(out, op.Key...)
		// Double space before <flags> is intentional: the original encoder
		// wrote a bare " " after the key and then " <flags>", and replies
		// keep that byte-for-byte.
		out = append(out, ' ', ' ')
		out = strconv.AppendUint(out, uint64(op.Flags), 10)
		out = append(out, ' ')
		out = strconv.AppendUint(out, uint64(len(op.Value)), 10)
		out = append(out, '\r', '\n')
		out = append(out, op.Value...)
		out = append(out, '\r', '\n')
		out = append(out, responseTerminator...)
	case OpStored:
		out = append(out, "STORED\r\n"...)
	case OpNotStored:
		out = append(out, "NOT_STORED\r\n"...)
	}
	return out, true
}
