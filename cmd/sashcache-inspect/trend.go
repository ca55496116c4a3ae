package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/spf13/pflag"
)

// historyRecord is what trend.go persists per poll, one per (target,
// timestamp) pair.
type historyRecord struct {
	Target   string    `json:"target"`
	At       time.Time `json:"at"`
	TotalLen int       `json:"total_len"`
}

// openHistoryDB opens (creating if absent) a badger database under the
// user's cache directory. This is the inspector's own local history store —
// entirely separate from, and irrelevant to, the CORE's "no persistence"
// non-goal (spec.md §1): the cache server itself never touches this file.
func openHistoryDB() (*badger.DB, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "sashcache-inspect", "history")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	return badger.Open(opts)
}

func recordHistory(db *badger.DB, rec historyRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("%s|%s", rec.Target, rec.At.Format(time.RFC3339Nano)))
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, body)
	})
}

func loadHistory(db *badger.DB, target string) ([]historyRecord, error) {
	prefix := []byte(target + "|")
	var out []historyRecord
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var rec historyRecord
			if err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

func runTrend(args []string) error {
	fs := pflag.NewFlagSet("trend", pflag.ExitOnError)
	target := fs.String("target", "http://127.0.0.1:9090", "base URL of the sashcached debug endpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openHistoryDB()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
	defer cancel()
	stats, err := fetchSnapshot(ctx, *target)
	if err != nil {
		return err
	}

	now := historyRecord{Target: *target, At: time.Now(), TotalLen: totalLen(stats)}
	if err := recordHistory(db, now); err != nil {
		return fmt.Errorf("recording history: %w", err)
	}

	history, err := loadHistory(db, *target)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(history) < 2 {
		fmt.Printf("%s: first observation recorded (total_len=%d), nothing to trend yet\n", *target, now.TotalLen)
		return nil
	}

	first := history[0]
	fmt.Printf("%s: total_len %d -> %d over %s (%d samples)\n",
		*target, first.TotalLen, now.TotalLen, now.At.Sub(first.At).Round(time.Second), len(history))
	return nil
}
