package cache

import (
	"context"
	"fmt"
	"time"
)

/*
Cached wraps a function in read-through memoization.

The wrapped function consults the manager before calling fn: a live
hit short-circuits fn entirely, a miss runs fn and caches its result
under keyFn(arg). Errors from fn are never cached.

This is the general-purpose way to memoize an expensive fetch (a CMS
query, a slow HTTP call) without spreading GetOrSet plumbing through
call sites.
*/
func Cached[A, T any](m *Manager, keyFn func(A) string, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	return func(ctx context.Context, arg A) (T, error) {
		var zero T
		v, err := m.GetOrSet(ctx, keyFn(arg), func(ctx context.Context) (any, error) {
			return fn(ctx, arg)
		})
		if err != nil {
			return zero, err
		}
		t, ok := v.(T)
		if !ok {
			// A serializing backend returned a decoded shape instead
			// of the original type. Callers on those backends should
			// cache bytes or decoded-friendly types.
			return zero, fmt.Errorf("cache: cached value for %q is %T, not %T", keyFn(arg), v, zero)
		}
		return t, nil
	}
}

// CachedTTL is Cached with an explicit TTL for stored results.
func CachedTTL[A, T any](m *Manager, ttl time.Duration, keyFn func(A) string, fn func(context.Context, A) (T, error)) func(context.Context, A) (T, error) {
	return func(ctx context.Context, arg A) (T, error) {
		var zero T
		v, err := m.GetOrSetTTL(ctx, keyFn(arg), ttl, func(ctx context.Context) (any, error) {
			return fn(ctx, arg)
		})
		if err != nil {
			return zero, err
		}
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("cache: cached value for %q is %T, not %T", keyFn(arg), v, zero)
		}
		return t, nil
	}
}
