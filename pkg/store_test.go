package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sashcache/sashcache/internal/codec"
	"github.com/sashcache/sashcache/internal/index"
)

func newTestStore() *Store {
	ix := index.WithCapacity[index.Key, index.Value](16)
	return NewStore(ix)
}

func TestStoreSetThenGetHit(t *testing.T) {
	s := newTestStore()

	resp := s.Execute(codec.ClientOp{Kind: codec.OpSet, RequestID: 0x2A, Key: []byte("foo"), Flags: 7, Value: []byte("bar")})
	require.Equal(t, codec.OpStored, resp.Kind)
	require.Equal(t, uint16(0x2A), resp.RequestID)

	resp = s.Execute(codec.ClientOp{Kind: codec.OpGet, RequestID: 0x2B, Key: []byte("foo")})
	require.Equal(t, codec.OpValue, resp.Kind)
	require.Equal(t, uint32(7), resp.Flags)
	require.Equal(t, "bar", string(resp.Value))
}

func TestStoreGetMiss(t *testing.T) {
	s := newTestStore()
	resp := s.Execute(codec.ClientOp{Kind: codec.OpGet, RequestID: 1, Key: []byte("nope")})
	require.Equal(t, codec.OpNoReply, resp.Kind)
}

func TestStoreOversizeKeySet(t *testing.T) {
	s := newTestStore()
	bigKey := make([]byte, index.MaxKeyLen+1)
	resp := s.Execute(codec.ClientOp{Kind: codec.OpSet, RequestID: 1, Key: bigKey, Value: []byte("v")})
	require.Equal(t, codec.OpNotStored, resp.Kind)
}

func TestStoreOversizeValueSet(t *testing.T) {
	s := newTestStore()
	bigVal := make([]byte, index.MaxValueLen+1)
	resp := s.Execute(codec.ClientOp{Kind: codec.OpSet, RequestID: 1, Key: []byte("k"), Value: bigVal})
	require.Equal(t, codec.OpNotStored, resp.Kind)
}

func TestStoreOversizeKeyGet(t *testing.T) {
	s := newTestStore()
	bigKey := make([]byte, index.MaxKeyLen+1)
	resp := s.Execute(codec.ClientOp{Kind: codec.OpGet, RequestID: 1, Key: bigKey})
	require.Equal(t, codec.OpNoReply, resp.Kind)
}
