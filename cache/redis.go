package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/redis/go-redis/v9"
)

// Redis is a shared cache store for multi-instance deployments, backed by
// go-redis/v9.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis cache store from an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "cache:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("cache: redis get %s: %w", key, err)
	}
	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("cache: decode entry %s: %w", key, err)
	}
	return entry, true, nil
}

func (r *Redis) Set(ctx context.Context, entry domain.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(entry.Key), raw, entry.TTL).Err(); err != nil {
		return fmt.Errorf("cache: redis set %s: %w", entry.Key, err)
	}
	return nil
}

// BumpHit increments the entry's hit counter with an HINCRBY sent from a
// background goroutine, without waiting on the reply, since losing an
// occasional hit-count update is acceptable on the read hot path.
func (r *Redis) BumpHit(ctx context.Context, key string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		_ = r.client.HIncrBy(ctx, r.key(key)+":hits", "count", 1).Err()
	}()
}

var _ Store = (*Redis)(nil)
