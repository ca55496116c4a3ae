// store.go implements the Store (C4): the thin layer that turns a decoded
// ClientOp into an Index mutation/lookup and a ServerOp (spec.md §4.4). It
// is deliberately small — almost all of the interesting behavior lives in
// internal/index and internal/codec; the Store's job is just to enforce the
// two size limits the wire format itself does not.
//
// © 2025 sashcache authors. MIT License.
package cache

import (
	"github.com/sashcache/sashcache/internal/codec"
	"github.com/sashcache/sashcache/internal/index"
)

// Store applies decoded ops against a single Index. It is not safe for
// concurrent use — each Worker owns exactly one Store (spec.md §4.4 "single-
// threaded per Worker").
type Store struct {
	ix *index.Index[index.Key, index.Value]
}

// NewStore wraps an already-constructed Index. Workers build the Index with
// the capacity/parameters from their Config before constructing a Store.
func NewStore(ix *index.Index[index.Key, index.Value]) *Store {
	return &Store{ix: ix}
}

// Execute applies op and returns the response to send (or codec.NoReply).
func (s *Store) Execute(op codec.ClientOp) codec.ServerOp {
	switch op.Kind {
	case codec.OpGet:
		return s.execGet(op)
	case codec.OpSet:
		return s.execSet(op)
	default:
		return codec.NoReply
	}
}

func (s *Store) execGet(op codec.ClientOp) codec.ServerOp {
	if len(op.Key) > index.MaxKeyLen {
		return codec.NoReply
	}
	key, err := index.NewKey(op.Key)
	if err != nil {
		return codec.NoReply
	}
	val, ok := s.ix.Get(key)
	if !ok {
		return codec.NoReply
	}
	return codec.ServerOp{
		Kind:      codec.OpValue,
		RequestID: op.RequestID,
		Key:       key.Bytes(),
		Flags:     val.Flags,
		Value:     val.Payload(),
	}
}

func (s *Store) execSet(op codec.ClientOp) codec.ServerOp {
	if len(op.Key) > index.MaxKeyLen || len(op.Value) > index.MaxValueLen {
		return codec.ServerOp{Kind: codec.OpNotStored, RequestID: op.RequestID}
	}
	key, err := index.NewKey(op.Key)
	if err != nil {
		return codec.ServerOp{Kind: codec.OpNotStored, RequestID: op.RequestID}
	}
	val, err := index.NewValue(op.Flags, op.Value)
	if err != nil {
		return codec.ServerOp{Kind: codec.OpNotStored, RequestID: op.RequestID}
	}
	s.ix.Insert(key, val)
	return codec.ServerOp{Kind: codec.OpStored, RequestID: op.RequestID}
}

// Len reports the number of live entries in the underlying Index. Callable
// only from the Worker goroutine that owns this Store; Snapshot from
// another goroutine must use LenAtomic instead.
func (s *Store) Len() int { return s.ix.Len() }

// Capacity reports the underlying Index's current backing-array size.
// Callable only from the owning Worker goroutine.
func (s *Store) Capacity() int { return s.ix.Capacity() }

// RehashHistory exposes the underlying Index's diagnostic rehash log.
// Callable only from the owning Worker goroutine.
func (s *Store) RehashHistory() []index.RehashEvent { return s.ix.RehashHistory() }

// LenAtomic, CapacityAtomic, and RehashCountAtomic are the cross-goroutine-
// safe counterparts above, backed by atomic fields on the Index that the
// owning Worker goroutine mirrors on every mutation (SPEC_FULL.md §6.3's
// debug/metrics snapshot reads these, not the plain fields, since the
// snapshot runs on an HTTP handler goroutine while the Worker concurrently
// mutates the Index).
func (s *Store) LenAtomic() int         { return s.ix.LenAtomic() }
func (s *Store) CapacityAtomic() int    { return s.ix.CapacityAtomic() }
func (s *Store) RehashCountAtomic() int { return s.ix.RehashCountAtomic() }
