package storage

import (
	"errors"
	"time"
)

// ErrStoreFull is returned by Put when a quota-bounded store cannot
// accept the entry. The manager reacts by cleaning up and retrying;
// the error never reaches callers of the cache.
var ErrStoreFull = errors.New("storage: store is full")

/*
Entry is one cached value together with its liveness metadata.

The TTL is fixed at insertion time. A Set that replaces an existing
key produces a brand new Entry with a fresh CreatedAt; nothing ever
extends the life of an entry in place.
*/
type Entry struct {
	Key       string
	Data      any
	CreatedAt time.Time
	TTL       time.Duration
}

// Live reports whether the entry is still valid at the given instant.
// An entry with TTL <= 0 is already expired. The boundary is
// inclusive: an entry is live at exactly CreatedAt+TTL.
func (e Entry) Live(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.CreatedAt) <= e.TTL
}

/*
Store is the contract between the cache manager and its backing
medium. A manager is bound to exactly one Store for its lifetime.

Stores know nothing about expiry: Get returns whatever is present,
live or not, and the manager applies the liveness rules. Stores also
know nothing about capacity in entry count; the only limit a store
may enforce is a byte quota, signalled via ErrStoreFull.

Several managers may share one Store instance (the session and file
stores model a browser storage object shared by the whole page).
Isolation between them is by key prefix, which is why the scan
operations take a prefix.
*/
type Store interface {

	// Get retrieves the raw entry for a key, expired or not.
	Get(key string) (Entry, bool)

	// Put inserts or replaces an entry. It returns ErrStoreFull when
	// a byte quota would be exceeded; in-memory stores never fail.
	Put(e Entry) error

	// Delete removes an entry, reporting whether it was present.
	Delete(key string) bool

	// Keys lists all stored keys that begin with prefix.
	Keys(prefix string) []string

	// Len counts stored keys that begin with prefix.
	Len(prefix string) int

	// Clear removes every entry whose key begins with prefix.
	Clear(prefix string)

	// Close releases any resources held by the store.
	Close() error
}
