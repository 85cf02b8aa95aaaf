package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ekinsoft/webkit/cache/storage"
)

/*
Manager is the cache implementation. It connects one storage backend
with the expiry rules, the capacity bound, and the background sweep.

A manager owns its namespace on the backend exclusively. Nothing else
may write keys under its prefix, and the manager never touches keys
outside it.
*/
type Manager struct {
	opts   Options
	prefix string

	// mu serializes mutations so the capacity invariant holds after
	// every Set and Cleanup, even with concurrent writers.
	mu sync.Mutex

	// sf de-duplicates concurrent cold-key computes when
	// Options.SingleFlight is on.
	sf singleflight.Group

	stop     chan struct{}
	stopOnce sync.Once
}

var _ Cache = (*Manager)(nil)

// New creates a Manager and starts its background sweep.
func New(opts Options) (*Manager, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		opts:   opts,
		prefix: opts.Namespace + ":",
		stop:   make(chan struct{}),
	}

	if opts.CleanupInterval > 0 {
		go m.sweep(opts.CleanupInterval)
	}

	return m, nil
}

// sweep runs Cleanup on a fixed interval until Close.
func (m *Manager) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Cleanup()
		case <-m.stop:
			m.opts.Logger.Debug("cache: sweep stopped", slog.String("namespace", m.opts.Namespace))
			return
		}
	}
}

func (m *Manager) key(key string) string { return m.prefix + key }

// Get retrieves a live value. Expired entries are deleted on the way
// out and reported as misses.
func (m *Manager) Get(key string) (any, bool) {
	e, ok := m.opts.Store.Get(m.key(key))
	if !ok {
		m.opts.Metrics.Miss()
		return nil, false
	}
	if !e.Live(time.Now()) {
		m.mu.Lock()
		// Re-read under the lock: a writer may have replaced the
		// entry since the liveness check. Only the entry observed
		// expired may be deleted; a fresh one stays.
		if cur, ok := m.opts.Store.Get(m.key(key)); ok && cur.CreatedAt.Equal(e.CreatedAt) {
			m.opts.Store.Delete(m.key(key))
			m.opts.Metrics.Expire()
		}
		m.mu.Unlock()
		m.opts.Metrics.Miss()
		return nil, false
	}
	m.opts.Metrics.Hit()
	return e.Data, true
}

// Set stores data under key with the manager's default TTL.
func (m *Manager) Set(key string, data any) {
	m.SetTTL(key, data, m.opts.TTL)
}

// SetTTL stores data with an explicit TTL, then settles the capacity
// bound before returning. Write failures on quota-bounded backends
// are retried once after a cleanup and otherwise swallowed.
func (m *Manager) SetTTL(key string, data any, ttl time.Duration) {
	e := storage.Entry{
		Key:       m.key(key),
		Data:      data,
		CreatedAt: time.Now(),
		TTL:       ttl,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.opts.Store.Put(e)
	if errors.Is(err, storage.ErrStoreFull) {
		// Storage pressure: sweep our namespace once and retry once.
		m.cleanupLocked()
		err = m.opts.Store.Put(e)
	}
	if err != nil {
		m.opts.Metrics.WriteFailure()
		m.opts.Logger.Warn("cache: dropping write",
			slog.String("namespace", m.opts.Namespace),
			slog.String("key", key),
			slog.Any("error", err))
		return
	}

	for m.opts.Store.Len(m.prefix) > m.opts.MaxSize {
		if !m.evictOldestLocked() {
			break
		}
	}
}

// evictOldestLocked removes the entry with the earliest CreatedAt in
// this namespace, breaking ties on the smaller key so eviction order
// is deterministic. Reports whether anything was removed.
func (m *Manager) evictOldestLocked() bool {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for _, k := range m.opts.Store.Keys(m.prefix) {
		e, ok := m.opts.Store.Get(k)
		if !ok {
			continue
		}
		if !found || e.CreatedAt.Before(oldestAt) ||
			(e.CreatedAt.Equal(oldestAt) && k < oldestKey) {
			oldestKey, oldestAt, found = k, e.CreatedAt, true
		}
	}
	if !found {
		return false
	}
	m.opts.Store.Delete(oldestKey)
	m.opts.Metrics.Eviction()
	return true
}

// GetOrSet returns the cached value for key, computing and caching it
// on a miss with the manager's default TTL.
func (m *Manager) GetOrSet(ctx context.Context, key string, compute func(context.Context) (any, error)) (any, error) {
	return m.GetOrSetTTL(ctx, key, m.opts.TTL, compute)
}

// GetOrSetTTL is GetOrSet with an explicit TTL. On compute failure
// nothing is cached and the error propagates untouched.
func (m *Manager) GetOrSetTTL(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (any, error)) (any, error) {
	if !m.opts.SingleFlight {
		return m.getOrSet(ctx, key, ttl, compute)
	}
	v, err, _ := m.sf.Do(m.key(key), func() (any, error) {
		return m.getOrSet(ctx, key, ttl, compute)
	})
	return v, err
}

func (m *Manager) getOrSet(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (any, error)) (any, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	m.SetTTL(key, v, ttl)
	return v, nil
}

// Delete removes the entry if present.
func (m *Manager) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts.Store.Delete(m.key(key))
}

// Clear wipes this manager's namespace.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Store.Clear(m.prefix)
}

// Cleanup removes expired entries and then enforces the capacity
// bound. The background sweep calls this on every tick.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked()
}

func (m *Manager) cleanupLocked() {
	now := time.Now()
	for _, k := range m.opts.Store.Keys(m.prefix) {
		e, ok := m.opts.Store.Get(k)
		if !ok {
			continue
		}
		if !e.Live(now) {
			m.opts.Store.Delete(k)
			m.opts.Metrics.Expire()
		}
	}
	for m.opts.Store.Len(m.prefix) > m.opts.MaxSize {
		if !m.evictOldestLocked() {
			break
		}
	}
}

// Stats reports the entries currently stored in this namespace, with
// the namespace prefix stripped. No expiry checking happens here.
func (m *Manager) Stats() Stats {
	keys := m.opts.Store.Keys(m.prefix)
	stripped := make([]string, len(keys))
	for i, k := range keys {
		stripped[i] = strings.TrimPrefix(k, m.prefix)
	}
	return Stats{Size: len(stripped), Keys: stripped}
}

// Close stops the background sweep. Idempotent; the manager stays
// usable for reads and writes afterwards.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
