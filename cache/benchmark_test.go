package cache_test

import (
	"fmt"
	"testing"

	"github.com/ekinsoft/webkit/cache"
	"github.com/ekinsoft/webkit/cache/storage"
)

func newBenchmarkCache(b *testing.B, store storage.Store) *cache.Manager {
	b.Helper()
	c, err := cache.New(cache.Options{
		MaxSize:         100000,
		Store:           store,
		CleanupInterval: -1,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(c.Close)
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkGetHit(b *testing.B) {
	c := newBenchmarkCache(b, storage.NewMemoryStore())
	c.Set("key", "value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key")
	}
}

func BenchmarkGetMiss(b *testing.B) {
	c := newBenchmarkCache(b, storage.NewMemoryStore())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("miss-%d", i))
	}
}

func BenchmarkSet(b *testing.B) {
	c := newBenchmarkCache(b, storage.NewMemoryStore())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
}

func BenchmarkSessionStoreSet(b *testing.B) {
	c := newBenchmarkCache(b, storage.NewSessionStore(1<<30))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkParallelGet(b *testing.B) {
	c := newBenchmarkCache(b, storage.NewMemoryStore())
	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get("key-42")
		}
	})
}
