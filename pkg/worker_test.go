package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sashcache/sashcache/internal/index"
)

func newTestWorker() *Worker {
	cfg := defaultConfig()
	return newWorker(0, 0, cfg.port, cfg, noopMetrics{}, nil)
}

func buildRequestFrame(reqID uint16, body string) []byte {
	buf := make([]byte, 8+len(body))
	buf[0] = byte(reqID >> 8)
	buf[1] = byte(reqID)
	buf[5] = 1
	copy(buf[8:], body)
	return buf
}

func TestWorkerHandleSetThenGet(t *testing.T) {
	w := newTestWorker()

	setFrame := buildRequestFrame(0x2A, "set foo 7 0 3\r\nbar\r\n")
	out, ok := w.handle(setFrame, len(setFrame))
	require.True(t, ok)
	require.Equal(t, "STORED\r\n", string(out[8:]))

	getFrame := buildRequestFrame(0x2B, "get foo\r\n")
	out, ok = w.handle(getFrame, len(getFrame))
	require.True(t, ok)
	require.Equal(t, "VALUE foo  7 3\r\nbar\r\n END\r\n", string(out[8:]))
}

func TestWorkerHandleGetMissSendsNoReply(t *testing.T) {
	w := newTestWorker()
	frame := buildRequestFrame(1, "get nope\r\n")
	_, ok := w.handle(frame, len(frame))
	require.False(t, ok)
}

func TestWorkerHandleMalformedFrameDropsSilently(t *testing.T) {
	w := newTestWorker()
	frame := buildRequestFrame(1, "frobnicate\r\n")
	_, ok := w.handle(frame, len(frame))
	require.False(t, ok)
}

func TestWorkerHandleOversizeKeyRejected(t *testing.T) {
	w := newTestWorker()
	bigKey := make([]byte, index.MaxKeyLen+1)
	for i := range bigKey {
		bigKey[i] = 'a'
	}
	body := "set " + string(bigKey) + " 0 0 1\r\nv\r\n"
	frame := buildRequestFrame(1, body)
	out, ok := w.handle(frame, len(frame))
	require.True(t, ok)
	require.Equal(t, "NOT_STORED\r\n", string(out[8:]))
}

func TestWorkerPerInstanceIsolation(t *testing.T) {
	w1 := newTestWorker()
	w2 := newTestWorker()

	setFrame := buildRequestFrame(1, "set shared 0 0 1\r\nx\r\n")
	w1.handle(setFrame, len(setFrame))

	getFrame := buildRequestFrame(2, "get shared\r\n")
	_, ok := w2.handle(getFrame, len(getFrame))
	require.False(t, ok, "worker 2's Index must not observe worker 1's set")
}
