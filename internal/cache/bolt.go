package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucket = "piivault_cache"

// Bolt is an embedded file-backed strategy. Entries carry an expires_at
// timestamp checked on read, so stale data survives on disk only until the
// next lookup or Clear.
type Bolt struct {
	db         *bolt.DB
	defaultTTL time.Duration
}

// NewBolt opens (or creates) the bbolt database at path and ensures the
// bucket exists.
func NewBolt(path string, defaultTTL time.Duration) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Bolt{db: db, defaultTTL: defaultTTL}, nil
}

func (b *Bolt) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var found bool

	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		var ent entry
		if err := json.Unmarshal(raw, &ent); err != nil {
			// Corrupted entry, treat as miss
			return nil
		}
		if ent.expired(time.Now()) {
			return nil
		}
		value = append([]byte(nil), ent.Value...)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, nil
	}
	return value, found, nil
}

func (b *Bolt) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = b.defaultTTL
	}
	ent := entry{Value: value}
	if ttl > 0 {
		ent.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(ent)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), raw)
	})
}

func (b *Bolt) ClearKey(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

func (b *Bolt) Clear(ctx context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(boltBucket))
		return err
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
