// dataset_gen.go generates deterministic `set` command lines for
// standalone load-testing of sashcached outside `go test` — the sashcache
// descendant of the teacher's uint64-key dataset generator, adapted to emit
// bounded ASCII key/value text instead of bare numbers, since the memcached
// body grammar (spec.md §4.3) takes keys and values as text, not integers.
//
// Usage:
//   go run ./tools/dataset_gen -n 1000000 -dist=zipf -seed=42 -out keys.txt
//
// Flags:
//   -n        number of records to generate (default 1e6)
//   -dist     distribution over key ids: "uniform" or "zipf" (default uniform)
//   -zipfs    Zipf s parameter (>1)  (default 1.2)
//   -zipfv    Zipf v parameter (>=1) (default 1.0)
//   -seed     RNG seed (default current time)
//   -keylen   key length in bytes, 1 to 250 (default 16)
//   -vallen   value length in bytes, 0 to 1024 (default 64)
//   -out      output file (default stdout)
//
// Each output line is "<key> <value>": the key and the payload text for one
// `set <key> <flags> <exptime> <bytes>` request.
//
// © 2025 sashcache authors. MIT License.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sashcache/sashcache/internal/index"
)

func main() {
	var (
		n       = flag.Int("n", 1_000_000, "number of records to generate")
		dist    = flag.String("dist", "uniform", "distribution over key ids: uniform or zipf")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		seedVal = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		keyLen  = flag.Int("keylen", 16, "key length in bytes")
		valLen  = flag.Int("vallen", 64, "value length in bytes")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	if *keyLen < 1 || *keyLen > index.MaxKeyLen {
		fmt.Fprintf(os.Stderr, "keylen must be in [1, %d]\n", index.MaxKeyLen)
		os.Exit(1)
	}
	if *valLen < 0 || *valLen > index.MaxValueLen {
		fmt.Fprintf(os.Stderr, "vallen must be in [0, %d]\n", index.MaxValueLen)
		os.Exit(1)
	}

	rnd := rand.New(rand.NewSource(*seedVal))

	var gen func() uint64
	switch *dist {
	case "uniform":
		gen = rnd.Uint64
	case "zipf":
		if *zipfS <= 1.0 || *zipfV < 1 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >=1")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, ^uint64(0))
		gen = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	alphabet := []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	key := make([]byte, *keyLen)
	val := make([]byte, *valLen)

	for i := 0; i < *n; i++ {
		id := gen()
		fillPseudoRandom(key, id, alphabet)
		fillPseudoRandom(val, id*31+7, alphabet)
		fmt.Fprintf(w, "%s %s\n", key, val)
	}
}

// fillPseudoRandom deterministically derives buf's bytes from seed so that
// the same (n, dist, seed) arguments always reproduce the identical
// dataset — the property the teacher's generator existed to preserve.
func fillPseudoRandom(buf []byte, seed uint64, alphabet []byte) {
	state := seed | 1
	for i := range buf {
		state = state*6364136223846793005 + 1442695040888963407
		buf[i] = alphabet[(state>>33)%uint64(len(alphabet))]
	}
}
