// Package cache provides the artifact cache shared by the CLI and the HTTP API.
//
// Rendering a matrix is cheap, but PDF export shells out to rsvg-convert and
// PNG rasterization allocates a large image, so rendered artifacts are cached
// by row and render options. Backends:
//
//   - [FileCache]: one JSON file per entry, used by the CLI by default
//   - [SQLiteCache]: a single embedded database file
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer] so that callers never build them by hand:
//
//	c, err := cache.Open(ctx, cache.Options{Backend: cache.BackendFile, Dir: dir})
//	key := cache.NewDefaultKeyer().ArtifactKey(rowHash, cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the default lifetime of a rendered artifact.
const TTLArtifact = 30 * 24 * time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false) and not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Purger is implemented by backends that keep expired entries until they
// are read. Purge removes them in bulk and reports how many went.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}
