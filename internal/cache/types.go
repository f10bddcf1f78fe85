package cache

import (
	"context"
	"time"
)

// Strategy is the pluggable key/value store used for whole-document results
// and per-value memoization. Implementations must be safe for concurrent use
// by unrelated processing calls.
type Strategy interface {
	// Get returns the stored value for key, or ok=false on a miss. Expired
	// entries are misses. A non-nil error is only returned by strategies
	// explicitly configured to treat backend failures as fatal.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key with the given TTL. A zero TTL means the
	// strategy's default lifetime.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// ClearKey removes a single entry
	ClearKey(ctx context.Context, key string) error

	// Clear removes all entries owned by this strategy
	Clear(ctx context.Context) error

	// Close releases any resources held by the strategy
	Close() error
}

// Stats reports cache performance counters
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
	Entries int64   `json:"entries"`
}

// entry is the stored representation used by the embedded strategies.
// A zero ExpiresAt means the entry never expires.
type entry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e entry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
