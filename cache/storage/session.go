package storage

import (
	"bytes"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// DefaultSessionQuota matches the typical per-origin sessionStorage
// allowance.
const DefaultSessionQuota int64 = 5 << 20

/*
SessionStore is the session backend: entries live only as long as the
process, like sessionStorage lives only as long as the tab.

Unlike MemoryStore it holds serialized entries, so anything stored
must survive a JSON round trip and comes back as generic decoded
values, never the original object. That keeps its behavior identical
to the persistent backend minus the disk, which is exactly the
difference between localStorage and sessionStorage.

One SessionStore is meant to be shared by every manager in the
process; managers stay out of each other's way via key prefixes. Each
store carries a random session ID for log correlation.
*/
type SessionStore struct {
	mu    sync.RWMutex
	id    string
	quota int64
	size  int64
	data  map[string][]byte
}

// NewSessionStore creates an empty session store. quota <= 0 selects
// DefaultSessionQuota.
func NewSessionStore(quota int64) *SessionStore {
	if quota <= 0 {
		quota = DefaultSessionQuota
	}
	return &SessionStore{
		id:    uuid.NewString(),
		quota: quota,
		data:  make(map[string][]byte),
	}
}

// ID returns the random identifier assigned to this session.
func (s *SessionStore) ID() string { return s.id }

func (s *SessionStore) Get(key string) (Entry, bool) {
	s.mu.RLock()
	b, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	e, err := decodeEntry(b)
	if err != nil || e.Key != key {
		s.dropCorrupt(key, b)
		return Entry{}, false
	}
	return e, true
}

// dropCorrupt removes a corrupt entry observed outside the write
// lock. It re-checks under the lock so racing readers of the same
// corrupt key decrement size once, and a fresh replacement written
// in between is never removed.
func (s *SessionStore) dropCorrupt(key string, observed []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.data[key]
	if !ok || !bytes.Equal(cur, observed) {
		return
	}
	delete(s.data, key)
	s.size -= int64(len(cur))
}

func (s *SessionStore) Put(e Entry) error {
	b, err := encodeEntry(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newSize := s.size - int64(len(s.data[e.Key])) + int64(len(b))
	if newSize > s.quota {
		return ErrStoreFull
	}
	s.data[e.Key] = b
	s.size = newSize
	return nil
}

func (s *SessionStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[key]
	if !ok {
		return false
	}
	delete(s.data, key)
	s.size -= int64(len(b))
	return true
}

func (s *SessionStore) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *SessionStore) Len(prefix string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func (s *SessionStore) Clear(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, b := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
			s.size -= int64(len(b))
		}
	}
}

func (s *SessionStore) Close() error { return nil }
