package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key of an underlying cache. Engines sharing a
// Redis instance use distinct scopes so their entries never collide.
//
//	shared := cache.NewRedisCache(client, "")
//	ci := cache.Scoped(shared, "ci:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Scoped wraps inner with a key prefix. A nil inner behaves like [NullCache].
func Scoped(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

func (s *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *ScopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Clear removes the entries under the scope when the inner cache can clear
// by prefix, and every entry of the inner cache otherwise.
func (s *ScopedCache) Clear(ctx context.Context) error {
	switch c := s.inner.(type) {
	case PrefixClearer:
		return c.ClearPrefix(ctx, s.prefix)
	case Clearer:
		return c.Clear(ctx)
	}
	return nil
}

func (s *ScopedCache) Close() error { return s.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
