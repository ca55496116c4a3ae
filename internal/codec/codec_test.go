package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildFrame(reqID uint16, body string) []byte {
	buf := make([]byte, HeaderLen+len(body))
	putHeader(buf, Header{RequestID: reqID, SeqNo: 0, DatagramTotal: 1})
	copy(buf[HeaderLen:], body)
	return buf
}

func TestDecodeGet(t *testing.T) {
	buf := buildFrame(0x002B, "get foo\r\n")
	op, err := NewDecoder(buf).Decode()
	require.NoError(t, err)
	require.Equal(t, OpGet, op.Kind)
	require.Equal(t, uint16(0x002B), op.RequestID)
	require.Equal(t, "foo", string(op.Key))
}

func TestDecodeSet(t *testing.T) {
	buf := buildFrame(0x002A, "set foo 7 0 3\r\nbar\r\n")
	op, err := NewDecoder(buf).Decode()
	require.NoError(t, err)
	require.Equal(t, OpSet, op.Kind)
	require.Equal(t, uint16(0x002A), op.RequestID)
	require.Equal(t, "foo", string(op.Key))
	require.Equal(t, uint32(7), op.Flags)
	require.Equal(t, "bar", string(op.Value))
}

func TestDecodeInvalidOpCode(t *testing.T) {
	buf := buildFrame(1, "frobnicate foo\r\n")
	_, err := NewDecoder(buf).Decode()
	require.ErrorIs(t, err, ErrInvalidOpCode)
}

func TestDecodeUnexpectedEOF(t *testing.T) {
	buf := buildFrame(1, "get foo")
	_, err := NewDecoder(buf).Decode()
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestDecodeSetMalformedFlags(t *testing.T) {
	buf := buildFrame(1, "set foo notanumber 0 3\r\nbar\r\n")
	_, err := NewDecoder(buf).Decode()
	require.ErrorIs(t, err, ErrInvalidOpCode)
}

func TestDecodeShortHeader(t *testing.T) {
	_, err := NewDecoder([]byte{0, 1, 2}).Decode()
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestEncodeValueScenario(t *testing.T) {
	buf := buildFrame(0x002B, "get foo\r\n")
	out, sent := EncodeInto(buf, ServerOp{
		Kind:      OpValue,
		RequestID: 0x002B,
		Key:       []byte("foo"),
		Flags:     7,
		Value:     []byte("bar"),
	})
	require.True(t, sent)
	require.Equal(t, []byte{0x00, 0x2B, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00}, out[:HeaderLen])
	require.Equal(t, "VALUE foo  7 3\r\nbar\r\n END\r\n", string(out[HeaderLen:]))
}

func TestEncodeStored(t *testing.T) {
	out, sent := EncodeInto(make([]byte, 0, 64), ServerOp{Kind: OpStored, RequestID: 0x002A})
	require.True(t, sent)
	require.Equal(t, []byte{0x00, 0x2A, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00}, out[:HeaderLen])
	require.Equal(t, "STORED\r\n", string(out[HeaderLen:]))
}

func TestEncodeNotStored(t *testing.T) {
	out, sent := EncodeInto(make([]byte, 0, 64), ServerOp{Kind: OpNotStored, RequestID: 9})
	require.True(t, sent)
	require.Equal(t, "NOT_STORED\r\n", string(out[HeaderLen:]))
}

func TestEncodeNoReply(t *testing.T) {
	out, sent := EncodeInto(make([]byte, 0, 64), NoReply)
	require.False(t, sent)
	require.Nil(t, out)
}

func TestBufferReuseNoGrowthWithinBudget(t *testing.T) {
	buf := make([]byte, 1500)
	cap0 := cap(buf)
	out, _ := EncodeInto(buf, ServerOp{Kind: OpValue, Key: []byte("foo"), Flags: 7, Value: []byte("bar")})
	require.GreaterOrEqual(t, cap(out), cap0)
}
