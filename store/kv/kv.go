// Package kv defines the key/value capability interface used by the cache,
// session manager, staging drafts, and webhook outbound queue, with a
// Redis-backed implementation.
package kv

import (
	"context"
	"time"
)

// Store is the capability interface shared by all k/v-backed components.
// Implementations: Redis (redis.go).
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)

	// LPush/BRPop back the webhook dispatcher's outbound queue.
	LPush(ctx context.Context, key string, value string) error
	BRPop(ctx context.Context, key string, timeout time.Duration) (string, bool, error)

	// Lock acquires an advisory lock keyed by name for the duration of ttl,
	// used to serialize per-draft commits and per-session processing.
	Lock(ctx context.Context, name string, ttl time.Duration) (Unlock, bool, error)
}

// Unlock releases a lock acquired via Store.Lock.
type Unlock func(ctx context.Context) error
