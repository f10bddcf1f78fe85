package cache

import (
	"context"
	"time"
)

// Noop is the strategy used when caching is disabled. Get always misses,
// writes are discarded.
type Noop struct{}

// NewNoop returns the no-op strategy
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *Noop) ClearKey(ctx context.Context, key string) error { return nil }

func (n *Noop) Clear(ctx context.Context) error { return nil }

func (n *Noop) Close() error { return nil }
