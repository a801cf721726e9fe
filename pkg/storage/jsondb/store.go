package jsondb

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/BlackVectorOps/faultseed/pkg/models"
)

const (
	// MaxDBSizeBytes prevents memory exhaustion from an oversized or
	// corrupted history file. 64MB holds years of runs.
	MaxDBSizeBytes = 64 * 1024 * 1024

	// SecureFilePerms keeps run history owner-only. Histories name internal
	// function symbols; other users on the box have no business reading them.
	SecureFilePerms = 0600
)

// database is the on-disk shape of the history file.
type database struct {
	Version string             `json:"version"`
	Runs    []models.RunRecord `json:"runs"`
}

// Store is a JSON-file backed run history. Reads dominate (history listings),
// so a read/write mutex lets readers swarm while AddRun stops the world.
type Store struct {
	path string
	db   database
	mu   sync.RWMutex
}

// Open loads the history at path, creating an empty in-memory database when
// the file does not exist yet. The first AddRun materializes it on disk.
func Open(path string) (*Store, error) {
	s := &Store{
		path: filepath.Clean(path),
		db:   database{Version: "1.0"},
	}

	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat run history: %w", err)
	}
	// Refuse named pipes and devices. Reading from a blocking pipe would
	// hang the CLI indefinitely.
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("run history path %s is not a regular file", s.path)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	defer f.Close()

	decoder := json.NewDecoder(io.LimitReader(f, MaxDBSizeBytes))
	// Strict schema: unknown fields mean version drift or corruption.
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s.db); err != nil {
		return nil, fmt.Errorf("parse run history: %w", err)
	}
	return s, nil
}

// AddRun appends the record and rewrites the file atomically.
func (s *Store) AddRun(rec *models.RunRecord) error {
	if rec == nil {
		return fmt.Errorf("cannot add nil run record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		// crypto/rand: IDs must not collide across machines sharing a
		// history file, and math/rand seeds are too easy to repeat.
		b := make([]byte, 8)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate run id: %w", err)
		}
		rec.ID = "RUN-" + hex.EncodeToString(b)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	s.db.Runs = append(s.db.Runs, *rec)
	return s.save()
}

// save writes to a temp file in the same directory, syncs, then renames.
// Same-directory matters: cross-partition renames are not atomic.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "run-history-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(SecureFilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("set history file permissions: %w", err)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ") // humans read this file too
	if err := encoder.Encode(s.db); err != nil {
		tmp.Close()
		return fmt.Errorf("encode run history: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync run history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace run history: %w", err)
	}
	return nil
}

// ListRuns returns copies, newest first.
func (s *Store) ListRuns(targetFunc string, limit int) ([]models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RunRecord
	for i := range s.db.Runs {
		if targetFunc != "" && s.db.Runs[i].TargetFunc != targetFunc {
			continue
		}
		out = append(out, s.db.Runs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op; the file is rewritten whole on every AddRun.
func (s *Store) Close() error { return nil }
