package cache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisConfig contains the Redis strategy settings
type RedisConfig struct {
	URL            string
	KeyPrefix      string
	DefaultTTL     time.Duration
	MaxConnections int
	MinIdleConns   int
	// Strict makes backend read failures fatal for the processing call
	// instead of degrading to a cache miss.
	Strict bool
}

// Redis is the external store-backed strategy. Keys are namespaced with a
// fixed prefix; values are stored as JSON documents produced by the caller.
type Redis struct {
	client *redis.Client
	config RedisConfig
	logger *zap.Logger

	hits   int64
	misses int64
}

// NewRedis creates a Redis-backed cache strategy and verifies connectivity
func NewRedis(config RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis cache initialized",
		zap.String("redis_url", maskRedisURL(config.URL)),
		zap.String("key_prefix", config.KeyPrefix),
		zap.Duration("default_ttl", config.DefaultTTL))

	return &Redis{client: client, config: config, logger: logger}, nil
}

func (r *Redis) formatKey(key string) string {
	return fmt.Sprintf("%s:%s", r.config.KeyPrefix, key)
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.formatKey(key)).Bytes()
	if err == redis.Nil {
		atomic.AddInt64(&r.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		if r.config.Strict {
			return nil, false, fmt.Errorf("cache lookup failed: %w", err)
		}
		// Connection failures degrade to a recompute, not a fatal error
		r.logger.Warn("Cache lookup failed, treating as miss", zap.Error(err))
		atomic.AddInt64(&r.misses, 1)
		return nil, false, nil
	}

	atomic.AddInt64(&r.hits, 1)
	return data, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}
	if err := r.client.Set(ctx, r.formatKey(key), value, ttl).Err(); err != nil {
		r.logger.Error("Failed to cache value", zap.Error(err))
		return fmt.Errorf("failed to cache value: %w", err)
	}
	return nil
}

func (r *Redis) ClearKey(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.formatKey(key)).Err()
}

// Clear removes all keys under this strategy's prefix using SCAN
func (r *Redis) Clear(ctx context.Context) error {
	pattern := r.config.KeyPrefix + ":*"

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	// Delete keys in batches
	batchSize := 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		if err := r.client.Del(ctx, keys[i:end]...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	r.logger.Info("Cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// GetStats returns hit/miss counters for diagnostics
func (r *Redis) GetStats(ctx context.Context) Stats {
	stats := Stats{Hits: atomic.LoadInt64(&r.hits), Misses: atomic.LoadInt64(&r.misses)}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	if keys, err := r.client.DBSize(ctx).Result(); err == nil {
		stats.Entries = keys
	}
	return stats
}

// maskRedisURL masks credentials in a Redis URL for logging
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
