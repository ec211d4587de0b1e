// Package cache provides byte-level caching for rendered artifacts.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server
//   - [MongoCache]: document store with a TTL index
//
// All backends implement [Cache] and are safe for concurrent use.
//
// # Keys
//
// Keys are built by a [Keyer] from the SHA-256 of the source image bytes and
// every option that changes the output. A tree is never cached, only the
// encoded artifacts and stats derived from it.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLStats    = 7 * 24 * time.Hour
)
