// Package cache provides byte caches for resolution results.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for servers running several instances
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so that the same manifest digest and tag
// request always map to the same entry:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ResultKey(digest, cache.ResultKeyOpts{Tags: []string{"test"}})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long resolution results stay cached. Entries are keyed
// by manifest digest, so a changed manifest never reads a stale entry.
const DefaultTTL = 7 * 24 * time.Hour
