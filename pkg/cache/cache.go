// Package cache stores stats-tool output between runs.
//
// Running deepin-translation-utils over a large source tree is by far the
// slowest part of a report after the initial download, and source trees are
// never refreshed once fetched, so their stats are stable. Results are keyed
// by package, resolved source tree and language selection; --refresh bypasses
// reads and --no-cache swaps in the null implementation.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached stats output stays valid.
const DefaultTTL = 24 * time.Hour

// Cache is the storage interface for stats results.
type Cache interface {
	// Get retrieves the value for key. The second return value reports
	// whether the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
