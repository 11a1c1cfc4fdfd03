package cache

import (
	"context"
	"time"
)

// Cache is a small TTL key/value store. The search layer depends on this
// interface only, so tests can inject a deterministic-clock or no-op
// implementation.
type Cache interface {
	// Get returns the stored value and true, or "" and false on a miss
	// (including expiry).
	Get(ctx context.Context, key string) (string, bool)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration)
}
