// Package cache provides key/value backends for repository metadata.
//
// The resolver caches maven-metadata.xml responses per remote repository so
// that repeated version listings do not hit the network. Entries carry a TTL
// derived from the repository's update policy.
//
// Three backends are provided:
//
//   - [FileCache]: entries on local disk, for a single machine
//   - [RedisCache]: entries in Redis, shared between build agents
//   - [NullCache]: caching disabled
//
// Wrap any backend with [Scoped] to give it a key namespace.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error. Expired entries are
// misses. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// PrefixClearer is implemented by backends that can drop the entries whose
// keys start with a prefix.
type PrefixClearer interface {
	ClearPrefix(ctx context.Context, prefix string) error
}

// MetadataKey returns the cache key for a metadata document fetched from
// the repository with the given id.
func MetadataKey(repoID, path string) string {
	return "metadata:" + repoID + ":" + path
}
