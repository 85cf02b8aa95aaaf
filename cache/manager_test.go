package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekinsoft/webkit/cache"
	"github.com/ekinsoft/webkit/cache/storage"
)

//
// ================= TEST METRICS =================
//

type countingMetrics struct {
	hits, misses, expires, evictions, writeFailures atomic.Int64
}

func (m *countingMetrics) Hit()          { m.hits.Add(1) }
func (m *countingMetrics) Miss()         { m.misses.Add(1) }
func (m *countingMetrics) Expire()       { m.expires.Add(1) }
func (m *countingMetrics) Eviction()     { m.evictions.Add(1) }
func (m *countingMetrics) WriteFailure() { m.writeFailures.Add(1) }

func newTestCache(t *testing.T, opts cache.Options) *cache.Manager {
	t.Helper()
	if opts.CleanupInterval == 0 {
		opts.CleanupInterval = -1 // no sweep unless the test wants one
	}
	m, err := cache.New(opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

//
// ================= BASIC OPERATIONS =================
//

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t, cache.Options{})

	c.Set("greeting", "merhaba")

	v, ok := c.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "merhaba", v)
}

func TestGetMissingKey(t *testing.T) {
	c := newTestCache(t, cache.Options{})

	v, ok := c.Get("nothing")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestSetReplacesExistingEntry(t *testing.T) {
	c := newTestCache(t, cache.Options{})

	c.Set("key", "old")
	c.Set("key", "new")

	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestDelete(t *testing.T) {
	c := newTestCache(t, cache.Options{})

	c.Set("key", 1)
	assert.True(t, c.Delete("key"))
	assert.False(t, c.Delete("key"))

	_, ok := c.Get("key")
	assert.False(t, ok)
}

func TestClearOnlyTouchesOwnNamespace(t *testing.T) {
	store := storage.NewSessionStore(0)
	a := newTestCache(t, cache.Options{Namespace: "a", Store: store})
	b := newTestCache(t, cache.Options{Namespace: "b", Store: store})

	a.Set("k", "va")
	b.Set("k", "vb")

	a.Clear()

	assert.Equal(t, 0, a.Stats().Size)
	v, ok := b.Get("k")
	require.True(t, ok)
	assert.Equal(t, "vb", v)
}

//
// ================= EXPIRY =================
//

func TestTTLExpiration(t *testing.T) {
	metrics := &countingMetrics{}
	c := newTestCache(t, cache.Options{Metrics: metrics})

	c.SetTTL("temp", "value", 50*time.Millisecond)

	v, ok := c.Get("temp")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	time.Sleep(80 * time.Millisecond)

	_, ok = c.Get("temp")
	assert.False(t, ok)
	assert.EqualValues(t, 1, metrics.expires.Load())

	// Lazy deletion: the entry is gone, not just hidden.
	assert.Equal(t, 0, c.Stats().Size)
}

func TestZeroTTLIsAlreadyExpired(t *testing.T) {
	c := newTestCache(t, cache.Options{})

	c.SetTTL("dead", "value", 0)

	_, ok := c.Get("dead")
	assert.False(t, ok)
}

func TestNegativeTTLIsAlreadyExpired(t *testing.T) {
	c := newTestCache(t, cache.Options{})

	c.SetTTL("dead", "value", -time.Second)

	_, ok := c.Get("dead")
	assert.False(t, ok)
}

//
// ================= CAPACITY & EVICTION =================
//

func TestCapacityEvictsOldestFirst(t *testing.T) {
	metrics := &countingMetrics{}
	c := newTestCache(t, cache.Options{MaxSize: 3, Metrics: metrics})

	for _, key := range []string{"first", "second", "third", "fourth"} {
		c.Set(key, key)
		time.Sleep(2 * time.Millisecond) // distinct CreatedAt
		assert.LessOrEqual(t, c.Stats().Size, 3)
	}

	// "first" was oldest and must be the one evicted.
	_, ok := c.Get("first")
	assert.False(t, ok)
	for _, key := range []string{"second", "third", "fourth"} {
		_, ok := c.Get(key)
		assert.True(t, ok, key)
	}
	assert.EqualValues(t, 1, metrics.evictions.Load())
}

func TestCapacityInvariantUnderManySets(t *testing.T) {
	c := newTestCache(t, cache.Options{MaxSize: 5})

	for i := 0; i < 50; i++ {
		c.Set(string(rune('a'+i%26))+"-key", i)
		require.LessOrEqual(t, c.Stats().Size, 5)
	}
}

func TestCleanupEnforcesExpiryAndCapacity(t *testing.T) {
	c := newTestCache(t, cache.Options{MaxSize: 100})

	c.SetTTL("gone", 1, 10*time.Millisecond)
	c.Set("stays", 2)

	time.Sleep(30 * time.Millisecond)
	c.Cleanup()

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, []string{"stays"}, stats.Keys)
}

//
// ================= BACKGROUND SWEEP =================
//

func TestSweepRemovesExpiredEntries(t *testing.T) {
	c := newTestCache(t, cache.Options{CleanupInterval: 20 * time.Millisecond})

	c.SetTTL("temp", "value", 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return c.Stats().Size == 0 // Stats has no side effects; only the sweep removes
	}, time.Second, 10*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	c, err := cache.New(cache.Options{})
	require.NoError(t, err)

	c.Close()
	c.Close()

	// Still usable after Close; only the sweep is gone.
	c.Set("key", "value")
	_, ok := c.Get("key")
	assert.True(t, ok)
}

//
// ================= GET OR SET =================
//

func TestGetOrSetHitSkipsCompute(t *testing.T) {
	c := newTestCache(t, cache.Options{})
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (any, error) {
		calls++
		return "computed", nil
	}

	v, err := c.GetOrSet(ctx, "key", compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", v)

	v, err = c.GetOrSet(ctx, "key", compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", v)

	assert.Equal(t, 1, calls)
}

func TestGetOrSetFailureLeavesNoTrace(t *testing.T) {
	c := newTestCache(t, cache.Options{})
	ctx := context.Background()

	boom := errors.New("upstream down")
	_, err := c.GetOrSet(ctx, "key", func(context.Context) (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestGetOrSetSingleFlight(t *testing.T) {
	c := newTestCache(t, cache.Options{SingleFlight: true})
	ctx := context.Background()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrSet(ctx, "cold", func(context.Context) (any, error) {
				calls.Add(1)
				time.Sleep(30 * time.Millisecond)
				return "shared", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "shared", v)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

//
// ================= NAMESPACING =================
//

func TestNamespacedManagersOnSharedPersistentStore(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	pages := newTestCache(t, cache.Options{Namespace: "pages", Store: store})
	sessions := newTestCache(t, cache.Options{Namespace: "sessions", Store: store})

	pages.Set("home", "content")
	sessions.Set("user-1", "token")

	assert.Equal(t, []string{"home"}, pages.Stats().Keys)
	assert.Equal(t, []string{"user-1"}, sessions.Stats().Keys)
}

//
// ================= PERSISTENT BACKEND SEMANTICS =================
//

func TestPersistentRoundTrip(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := newTestCache(t, cache.Options{Store: store})

	lead := map[string]any{
		"name":  "Ayşe Yılmaz",
		"email": "ayse@example.com",
		"score": float64(42), // JSON numbers come back as float64
	}
	c.Set("lead", lead)

	v, ok := c.Get("lead")
	require.True(t, ok)
	assert.Equal(t, lead, v)
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	metrics := &countingMetrics{}
	store := storage.NewSessionStore(64) // far too small for the payload

	c := newTestCache(t, cache.Options{Store: store, Metrics: metrics})

	big := make([]byte, 4096)
	c.Set("huge", string(big)) // must not panic or error

	_, ok := c.Get("huge")
	assert.False(t, ok)
	assert.EqualValues(t, 1, metrics.writeFailures.Load())
}

//
// ================= LAZY DELETE vs CONCURRENT WRITE =================
//

// pausingStore parks the first Delete after arming, so a test can
// hold a reader inside its lazy expiry delete while a writer runs.
type pausingStore struct {
	storage.Store
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newPausingStore() *pausingStore {
	return &pausingStore{
		Store:   storage.NewMemoryStore(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *pausingStore) Delete(key string) bool {
	if s.armed.CompareAndSwap(true, false) {
		close(s.entered)
		<-s.release
	}
	return s.Store.Delete(key)
}

func TestLazyDeleteCannotClobberConcurrentWrite(t *testing.T) {
	store := newPausingStore()
	c := newTestCache(t, cache.Options{Store: store})

	c.SetTTL("k", "stale", time.Millisecond)
	time.Sleep(10 * time.Millisecond) // let it expire

	store.armed.Store(true)

	getDone := make(chan struct{})
	go func() {
		defer close(getDone)
		_, ok := c.Get("k") // parks inside the lazy expiry delete
		assert.False(t, ok)
	}()
	<-store.entered

	setDone := make(chan struct{})
	go func() {
		defer close(setDone)
		c.SetTTL("k", "fresh", time.Minute)
	}()

	// The write must wait for the lazy delete, never interleave with it.
	select {
	case <-setDone:
		t.Fatal("SetTTL completed while the lazy delete was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	<-getDone
	<-setDone

	// The fresh entry survived the stale delete.
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
}

//
// ================= CONSTRUCTION =================
//

func TestNegativeMaxSizeFailsFast(t *testing.T) {
	_, err := cache.New(cache.Options{MaxSize: -1})
	assert.Error(t, err)
}

//
// ================= CONCURRENCY =================
//

func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t, cache.Options{MaxSize: 50})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := string(rune('a' + id))
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Stats().Size, 50)
}
