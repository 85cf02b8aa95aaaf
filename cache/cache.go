package cache

import (
	"context"
	"time"
)

/*
Cache defines the public API of the expiring key-value cache.
This is a contract that guarantees certain behaviors without exposing
internals. Storage backends, eviction, expiry checking, and the
background sweep are all hidden behind this interface.
*/
type Cache interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		---------
		1. If the key exists and is NOT expired:
		   - Return (value, true)

		2. If the key does not exist:
		   - Return (nil, false)

		3. If the key exists but is expired:
		   - The entry is removed as a side effect (lazy deletion)
		   - Return (nil, false)

		A miss is never an error. Absence is the only signal; expired
		entries are indistinguishable from missing ones.
	*/
	Get(key string) (any, bool)

	/*
		Set stores a value under the key using the manager's default TTL.

		BEHAVIOR:
		---------
		- Fully replaces any existing entry, resetting its creation time
		- If the live count then exceeds the capacity, the oldest-inserted
		  entry is evicted before Set returns
		- On quota-bounded backends a failed write triggers one cleanup
		  and one retry; a second failure is logged and swallowed

		Set never fails from the caller's point of view.
	*/
	Set(key string, data any)

	// SetTTL is Set with an explicit time-to-live. A ttl <= 0 stores
	// an entry that is already expired and will vanish on first read.
	SetTTL(key string, data any, ttl time.Duration)

	/*
		GetOrSet returns the cached value for key, computing and storing
		it on a miss.

		BEHAVIOR:
		---------
		- On a live hit, compute is never invoked
		- On a miss, compute runs; its result is stored and returned
		- If compute fails, nothing is stored and the error propagates

		Concurrent callers racing on the same cold key may each invoke
		compute; the last writer wins. This is a documented property,
		not a bug. Options.SingleFlight collapses the race so only one
		compute runs per cold key; success/failure semantics do not
		change.
	*/
	GetOrSet(ctx context.Context, key string, compute func(context.Context) (any, error)) (any, error)

	// GetOrSetTTL is GetOrSet with an explicit TTL for the stored result.
	GetOrSetTTL(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (any, error)) (any, error)

	// Delete removes the entry if present and reports whether it was.
	Delete(key string) bool

	// Clear removes every entry belonging to this manager's namespace.
	// Entries of other managers sharing the same backend are untouched.
	Clear()

	/*
		Cleanup synchronously removes all expired entries, then evicts
		oldest-first until the live count is within capacity.

		A background sweep invokes this on a fixed interval for the
		lifetime of the manager; Close cancels it.
	*/
	Cleanup()

	// Stats reports the current entry count and keys. Introspection
	// only: no expiry checking, no side effects.
	Stats() Stats

	// Close stops the background sweep. Safe to call more than once.
	// The manager remains usable afterwards; only the sweep is gone.
	Close()
}

// Stats is a point-in-time snapshot of a manager's namespace.
type Stats struct {
	Size int
	Keys []string
}
