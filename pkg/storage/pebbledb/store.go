package pebbledb

import (
	"bytes"
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BlackVectorOps/faultseed/pkg/models"
	"github.com/cockroachdb/pebble"
)

// Key prefixes simulate logical buckets in Pebble's flat key space.
// Keep these short to minimize per-key overhead.
var (
	prefixRuns   = []byte("run:") // master storage: run:ID -> gob blob
	prefixIdxTgt = []byte("tgt:") // index: tgt:TargetFunc:ID -> ID
)

// Store is a Pebble-backed run history for setups where injection runs pile
// up faster than a flat JSON file can be rewritten, e.g. CI matrices driving
// a reducer over many seeds.
type Store struct {
	db *pebble.DB
	mu sync.RWMutex
}

// Options configures store initialization.
type Options struct {
	ReadOnly  bool
	CacheSize int64
}

// DefaultOptions returns sensible defaults for a standard deployment.
func DefaultOptions() Options {
	return Options{
		CacheSize: 8 << 20, // 8MB cache
	}
}

// Open opens or creates a Pebble-backed history at dbPath. It retries on lock
// errors because rapid restarts in automated pipelines often leave the lock
// file held for a few milliseconds.
func Open(dbPath string, opts Options) (*Store, error) {
	if opts.CacheSize == 0 {
		opts.CacheSize = 8 << 20
	}
	if opts.ReadOnly {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("run history database does not exist: %s", dbPath)
		}
	}

	cache := pebble.NewCache(opts.CacheSize)
	defer cache.Unref()
	pebbleOpts := &pebble.Options{
		Cache:    cache,
		ReadOnly: opts.ReadOnly,
	}

	var db *pebble.DB
	var err error
	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		db, err = pebble.Open(dbPath, pebbleOpts)
		if err == nil {
			break
		}
		if strings.Contains(err.Error(), "lock") || strings.Contains(err.Error(), "temporarily unavailable") {
			// Exponential backoff: 100ms, 200ms, 400ms, 800ms, 1.6s
			time.Sleep(100 * time.Millisecond * time.Duration(1<<i))
			continue
		}
		return nil, fmt.Errorf("open pebble run history: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("open pebble run history after %d retries: %w", maxRetries, err)
	}

	s := &Store{db: db}
	// Opening a Pebble handle pins file descriptors; make leaks visible in
	// tests that forget Close.
	runtime.SetFinalizer(s, func(st *Store) { st.Close() })
	return s, nil
}

func runKey(id string) []byte {
	return append(append([]byte{}, prefixRuns...), id...)
}

func tgtKey(targetFunc, id string) []byte {
	k := append([]byte{}, prefixIdxTgt...)
	k = append(k, targetFunc...)
	k = append(k, ':')
	return append(k, id...)
}

// AddRun persists rec under run:ID and indexes it by target function. The
// write batch keeps record and index atomic with respect to crashes.
func (s *Store) AddRun(rec *models.RunRecord) error {
	if rec == nil {
		return fmt.Errorf("cannot add nil run record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		b := make([]byte, 8)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate run id: %w", err)
		}
		rec.ID = "RUN-" + hex.EncodeToString(b)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	var blob bytes.Buffer
	if err := gob.NewEncoder(&blob).Encode(rec); err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(runKey(rec.ID), blob.Bytes(), nil); err != nil {
		return fmt.Errorf("stage run record: %w", err)
	}
	if rec.TargetFunc != "" {
		if err := batch.Set(tgtKey(rec.TargetFunc, rec.ID), []byte(rec.ID), nil); err != nil {
			return fmt.Errorf("stage target index: %w", err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit run record: %w", err)
	}
	return nil
}

// ListRuns returns records newest first, optionally filtered by target
// function via the tgt: index; unfiltered listings range-scan run: directly.
func (s *Store) ListRuns(targetFunc string, limit int) ([]models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RunRecord
	if targetFunc != "" {
		prefix := append(append([]byte{}, prefixIdxTgt...), targetFunc+":"...)
		ids, err := s.scanIndex(prefix)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			rec, err := s.getRun(id)
			if err != nil {
				// A dangling index entry is survivable; the master record
				// is the source of truth.
				continue
			}
			out = append(out, *rec)
		}
	} else {
		iter, err := s.db.NewIter(&pebble.IterOptions{
			LowerBound: prefixRuns,
			UpperBound: upperBound(prefixRuns),
		})
		if err != nil {
			return nil, fmt.Errorf("iterate run records: %w", err)
		}
		defer iter.Close()
		for iter.First(); iter.Valid(); iter.Next() {
			var rec models.RunRecord
			if err := gob.NewDecoder(bytes.NewReader(iter.Value())).Decode(&rec); err != nil {
				continue
			}
			out = append(out, rec)
		}
		if err := iter.Error(); err != nil {
			return nil, fmt.Errorf("iterate run records: %w", err)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) scanIndex(prefix []byte) ([]string, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("iterate target index: %w", err)
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Value()))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate target index: %w", err)
	}
	return ids, nil
}

func (s *Store) getRun(id string) (*models.RunRecord, error) {
	val, closer, err := s.db.Get(runKey(id))
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	defer closer.Close()

	var rec models.RunRecord
	if err := gob.NewDecoder(bytes.NewReader(val)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &rec, nil
}

// upperBound computes the exclusive end key for a prefix scan.
func upperBound(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil // prefix is all 0xff; scan to the end
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	runtime.SetFinalizer(s, nil)
	return err
}
