package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pressrun/internal/logging"
)

// Key returns the fingerprint for the given parts: the hex SHA-256 digest of
// the parts joined with an ASCII unit separator. The separator keeps adjacent
// parts from colliding ("ab","c" vs "a","bc").
func Key(parts ...string) string {
	hasher := sha256.New()
	for i, part := range parts {
		if i > 0 {
			hasher.Write([]byte{0x1f})
		}
		hasher.Write([]byte(part))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// Store provides thread-safe access to a directory of cached payloads keyed
// by fingerprint. Entries are never evicted or invalidated.
type Store struct {
	dir    string
	ext    string
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewStore creates a store rooted at dir writing files with the given
// extension (without dot). If dir is empty the store is non-functional:
// reads miss and writes become no-ops. The directory is created lazily on
// first write.
func NewStore(dir, ext string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		dir:    dir,
		ext:    strings.TrimPrefix(ext, "."),
		logger: logging.NewComponentLogger(logger, "cache"),
	}
}

// ReadJSON loads the JSON payload for key into out. Any failure, including a
// corrupt payload, is logged and reported as a miss.
func (s *Store) ReadJSON(key string, out any) bool {
	data, ok := s.ReadBytes(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("discarding unreadable cache entry",
			logging.String("key", key),
			logging.Error(err))
		return false
	}
	return true
}

// WriteJSON stores value as the JSON payload for key.
func (s *Store) WriteJSON(key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return s.WriteBytes(key, data)
}

// ReadBytes loads the raw payload for key. Missing entries and read failures
// both report a miss; only unexpected failures are logged.
func (s *Store) ReadBytes(key string) ([]byte, bool) {
	if s.dir == "" || key == "" {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cache read failed",
				logging.String("key", key),
				logging.Error(err))
		}
		return nil, false
	}
	return data, true
}

// WriteBytes stores data as the payload for key, atomically via temp file.
func (s *Store) WriteBytes(key string, data []byte) error {
	if s.dir == "" {
		return nil
	}
	if key == "" {
		return errors.New("cache key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	target := s.path(key)
	tmpPath := target + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Contains reports whether a payload exists for key.
func (s *Store) Contains(key string) bool {
	if s.dir == "" || key == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.path(key))
	return err == nil && !info.IsDir()
}

// Stats returns the number of cached entries and their combined size in bytes.
func (s *Store) Stats() (int, int64) {
	if s.dir == "" {
		return 0, 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	var size int64
	for _, entry := range s.list() {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		size += info.Size()
	}
	return count, size
}

// Clear removes every cached entry and returns the number removed.
func (s *Store) Clear() (int, error) {
	if s.dir == "" {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for _, entry := range s.list() {
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("remove cache entry: %w", err)
		}
		removed++
	}

	s.logger.Debug("cleared cache",
		logging.String("dir", s.dir),
		logging.Int("entry_count", removed))
	return removed, nil
}

// list returns the directory entries carrying the store's extension. An
// absent directory is an empty cache.
func (s *Store) list() []fs.DirEntry {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("cache scan failed",
				logging.String("dir", s.dir),
				logging.Error(err))
		}
		return nil
	}
	suffix := "." + s.ext
	matched := entries[:0]
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		matched = append(matched, entry)
	}
	return matched
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+"."+s.ext)
}
