package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// LRU is a bounded in-memory strategy with least-recently-used eviction.
// Get refreshes recency; Set evicts the coldest entry when at capacity.
type LRU struct {
	mu         sync.Mutex
	capacity   int
	defaultTTL time.Duration
	entries    map[string]*list.Element
	order      *list.List // front = most recently used

	hits   int64
	misses int64
}

type lruItem struct {
	key string
	ent entry
}

// NewLRU creates an in-memory cache holding at most capacity entries.
// A defaultTTL of zero keeps entries until evicted.
func NewLRU(capacity int, defaultTTL time.Duration) *LRU {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *LRU) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false, nil
	}

	item := elem.Value.(*lruItem)
	if item.ent.expired(time.Now()) {
		c.order.Remove(elem)
		delete(c.entries, key)
		c.misses++
		return nil, false, nil
	}

	c.order.MoveToFront(elem)
	c.hits++
	return item.ent.Value, true, nil
}

func (c *LRU) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*lruItem).ent = entry{Value: value, ExpiresAt: expiresAt}
		c.order.MoveToFront(elem)
		return nil
	}

	// Eviction is atomic with insertion under the same lock
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruItem).key)
		}
	}

	elem := c.order.PushFront(&lruItem{key: key, ent: entry{Value: value, ExpiresAt: expiresAt}})
	c.entries[key] = elem
	return nil
}

func (c *LRU) ClearKey(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
	return nil
}

func (c *LRU) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

func (c *LRU) Close() error { return nil }

// GetStats returns hit/miss counters for diagnostics
func (c *LRU) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Hits: c.hits, Misses: c.misses, Entries: int64(c.order.Len())}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

// Len returns the current number of entries
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
