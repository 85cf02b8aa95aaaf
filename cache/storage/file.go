package storage

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultFileQuota mirrors the ~5MB quota browsers grant a single
// origin's persistent storage.
const DefaultFileQuota int64 = 5 << 20

/*
FileStore is the persistent backend: one JSON file per entry under a
base directory, surviving process restarts.

Keys are mapped to filenames through an fnv-64a hash, so arbitrary
key characters never reach the filesystem. An in-memory index (key →
file size) is rebuilt from the directory on construction by decoding
each file; files that fail to decode are removed on the spot.

The store enforces a total byte quota. Put reports ErrStoreFull
instead of writing past it; the cache manager owns the
cleanup-and-retry reaction.
*/
type FileStore struct {
	mu      sync.Mutex
	baseDir string
	quota   int64
	size    int64
	index   map[string]int64 // key -> encoded size in bytes
}

// NewFileStore opens (creating if needed) a file store rooted at dir.
// quota <= 0 selects DefaultFileQuota.
func NewFileStore(dir string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	if quota <= 0 {
		quota = DefaultFileQuota
	}
	s := &FileStore{
		baseDir: dir,
		quota:   quota,
		index:   make(map[string]int64),
	}
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadIndex rebuilds the key index from whatever is on disk.
// Unreadable or corrupt files are deleted rather than indexed.
func (s *FileStore) loadIndex() error {
	names, err := filepath.Glob(filepath.Join(s.baseDir, "*.json"))
	if err != nil {
		return fmt.Errorf("storage: scan %s: %w", s.baseDir, err)
	}
	for _, name := range names {
		b, err := os.ReadFile(name)
		if err != nil {
			_ = os.Remove(name)
			continue
		}
		e, err := decodeEntry(b)
		if err != nil {
			_ = os.Remove(name)
			continue
		}
		s.index[e.Key] = int64(len(b))
		s.size += int64(len(b))
	}
	return nil
}

func (s *FileStore) path(key string) string {
	h := fnv.New64a()
	h.Write([]byte(key))
	return filepath.Join(s.baseDir, fmt.Sprintf("%016x.json", h.Sum64()))
}

func (s *FileStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[key]; !ok {
		return Entry{}, false
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		s.dropLocked(key)
		return Entry{}, false
	}
	e, err := decodeEntry(b)
	if err != nil || e.Key != key {
		// Corrupt on disk: delete so it does not keep failing.
		s.dropLocked(key)
		return Entry{}, false
	}
	return e, true
}

func (s *FileStore) Put(e Entry) error {
	b, err := encodeEntry(e)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", e.Key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newSize := s.size - s.index[e.Key] + int64(len(b))
	if newSize > s.quota {
		return ErrStoreFull
	}
	if err := os.WriteFile(s.path(e.Key), b, 0o644); err != nil {
		return fmt.Errorf("storage: write %q: %w", e.Key, err)
	}
	s.size = newSize
	s.index[e.Key] = int64(len(b))
	return nil
}

func (s *FileStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[key]; !ok {
		return false
	}
	s.dropLocked(key)
	return true
}

func (s *FileStore) dropLocked(key string) {
	s.size -= s.index[key]
	delete(s.index, key)
	_ = os.Remove(s.path(key))
}

func (s *FileStore) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.index))
	for k := range s.index {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *FileStore) Len(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.index {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func (s *FileStore) Clear(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.index {
		if strings.HasPrefix(k, prefix) {
			s.dropLocked(k)
		}
	}
}

func (s *FileStore) Close() error { return nil }
