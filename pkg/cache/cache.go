// Package cache provides a byte-level cache with file and no-op backends,
// plus a layout memoizer on top of it. Computing a diagram layout runs the
// Graphviz engine, which is expensive enough to be worth caching: the same
// description structure always produces the same positions.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
