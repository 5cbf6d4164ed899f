package metadatacache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/logging"
)

// Store reads and writes the durable enrichment cache: a single JSON object
// mapping identity keys to catalog records or failure placeholders, shared
// with any other process that knows the path.
type Store struct {
	path     string
	logger   *slog.Logger
	fileLock *flock.Flock
}

// NewStore creates a store for the cache file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:     path,
		logger:   logging.NewComponentLogger(logger, "metadatacache"),
		fileLock: flock.New(path + ".lock"),
	}
}

// Path returns the cache file location.
func (s *Store) Path() string {
	return s.path
}

// Snapshot is the in-memory cache mapping a refresh cycle works against.
type Snapshot struct {
	entries map[string]comicvine.Record
}

// Get returns the cached record for key, if any.
func (m *Snapshot) Get(key string) (comicvine.Record, bool) {
	record, ok := m.entries[key]
	return record, ok
}

// Put stores a record under key. Existing entries are overwritten; nothing
// is ever removed.
func (m *Snapshot) Put(key string, record comicvine.Record) {
	if key == "" || record == nil {
		return
	}
	m.entries[key] = record
}

// Len returns the number of cached identities.
func (m *Snapshot) Len() int {
	return len(m.entries)
}

// Load reads the cache from disk. A missing file yields an empty snapshot
// and no error; a corrupt file yields an empty snapshot and the parse error
// so the caller can log it and continue the cycle.
func (s *Store) Load() (*Snapshot, error) {
	snapshot := &Snapshot{entries: make(map[string]comicvine.Record)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snapshot, nil
		}
		return snapshot, fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return snapshot, nil
	}

	if err := json.Unmarshal(data, &snapshot.entries); err != nil {
		snapshot.entries = make(map[string]comicvine.Record)
		return snapshot, fmt.Errorf("parse cache file: %w", err)
	}

	s.logger.Debug("loaded metadata cache",
		logging.Int("entry_count", len(snapshot.entries)),
		logging.String("path", s.path))
	return snapshot, nil
}

// Save persists the snapshot. The write happens under an advisory file lock
// with a merge step: keys present on disk but absent from the snapshot are
// carried over, so a concurrent writer's additions survive. Per key the
// snapshot wins, and no key is ever removed. The file itself is replaced
// atomically via temp file and rename.
func (s *Store) Save(snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.New("nil cache snapshot")
	}

	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer s.fileLock.Unlock()

	merged := make(map[string]comicvine.Record, len(snapshot.entries))
	if data, err := os.ReadFile(s.path); err == nil && len(data) > 0 {
		// Best effort: a corrupt on-disk map is simply replaced.
		_ = json.Unmarshal(data, &merged)
	}
	for key, record := range snapshot.entries {
		merged[key] = record
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("saved metadata cache",
		logging.Int("entry_count", len(merged)),
		logging.String("path", s.path))
	return nil
}

// Count returns the number of identities currently persisted.
func (s *Store) Count() (int, error) {
	snapshot, err := s.Load()
	if err != nil {
		return 0, err
	}
	return snapshot.Len(), nil
}

// Clear removes the durable cache file.
func (s *Store) Clear() error {
	if err := s.fileLock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer s.fileLock.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	s.logger.Debug("cleared metadata cache", logging.String("path", s.path))
	return nil
}
