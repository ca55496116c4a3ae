// Package bench provides reproducible micro-benchmarks for sashcache. Run
// via: go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// Unlike the teacher's sharded-Cache benchmarks (which measured a generic
// Cache[K,V] under concurrent access), sashcache's Index and Store are
// explicitly single-threaded per Worker (spec.md §1 Non-goals), so these
// benchmarks measure the two dominant components directly and serially:
//
//  1. Index.Insert / Index.Get — the open-addressing hash table (C2)
//  2. codec.Decode / codec.EncodeInto — the wire format (C3)
//
// © 2025 sashcache authors. MIT License.
package bench

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/sashcache/sashcache/internal/codec"
	"github.com/sashcache/sashcache/internal/index"
)

const datasetSize = 1 << 16

var keys = func() []index.Key {
	rnd := rand.New(rand.NewSource(42))
	out := make([]index.Key, datasetSize)
	for i := range out {
		k, err := index.NewKey([]byte(fmt.Sprintf("bench-key-%d", rnd.Uint64())))
		if err != nil {
			panic(err)
		}
		out[i] = k
	}
	return out
}()

var benchValue = func() index.Value {
	v, err := index.NewValue(7, make([]byte, 64))
	if err != nil {
		panic(err)
	}
	return v
}()

func BenchmarkIndexInsert(b *testing.B) {
	ix := index.WithCapacity[index.Key, index.Value](1 << 10)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Insert(keys[i&(datasetSize-1)], benchValue)
	}
}

func BenchmarkIndexGet(b *testing.B) {
	ix := index.WithCapacity[index.Key, index.Value](1 << 10)
	for _, k := range keys {
		ix.Insert(k, benchValue)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ix.Get(keys[i&(datasetSize-1)])
	}
}

func BenchmarkIndexGetParallel(b *testing.B) {
	ix := index.WithCapacity[index.Key, index.Value](1 << 10)
	for _, k := range keys {
		ix.Insert(k, benchValue)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		// Get does not mutate the Index, so concurrent readers are safe even
		// though the Index itself carries no internal locking (spec.md §1
		// "no concurrent access to a single Index" governs writers, not
		// this read-only benchmark).
		i := 0
		for pb.Next() {
			ix.Get(keys[i&(datasetSize-1)])
			i++
		}
	})
}

var decodeFrame = buildSetFrame()

func buildSetFrame() []byte {
	body := "set bench-key 7 0 3\r\nbar\r\n"
	buf := make([]byte, codec.HeaderLen+len(body))
	buf[5] = 1
	copy(buf[codec.HeaderLen:], body)
	return buf
}

func BenchmarkCodecDecode(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.NewDecoder(decodeFrame).Decode()
	}
}

func BenchmarkCodecEncodeValue(b *testing.B) {
	buf := make([]byte, 0, 1500)
	op := codec.ServerOp{Kind: codec.OpValue, RequestID: 1, Key: []byte("foo"), Flags: 7, Value: []byte("bar")}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codec.EncodeInto(buf, op)
	}
}
