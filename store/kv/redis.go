package kv

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of go-redis/v9.
type RedisStore struct {
	client *redis.Client
}

// NewRedis creates a RedisStore from a connection URL
// (e.g. redis://localhost:6379/0).
func NewRedis(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Incr(ctx, key).Result()
}

func (s *RedisStore) LPush(ctx context.Context, key string, value string) error {
	return s.client.LPush(ctx, key, value).Err()
}

func (s *RedisStore) BRPop(ctx context.Context, key string, timeout time.Duration) (string, bool, error) {
	res, err := s.client.BRPop(ctx, timeout, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if len(res) < 2 {
		return "", false, nil
	}
	return res[1], true, nil
}

// Lock acquires a Redis advisory lock using SET NX EX, with a token value so
// only the holder can release it.
func (s *RedisStore) Lock(ctx context.Context, name string, ttl time.Duration) (Unlock, bool, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, "lock:"+name, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	unlock := func(ctx context.Context) error {
		script := redis.NewScript(`
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			end
			return 0
		`)
		return script.Run(ctx, s.client, []string{"lock:" + name}, token).Err()
	}
	return unlock, true, nil
}

// BumpHitCount increments a cache entry's hit counter without waiting for
// the reply, matching the fire-and-forget idiom the cache layer wants for
// its hot path.
func (s *RedisStore) BumpHitCount(ctx context.Context, key string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		_ = s.client.Incr(ctx, key).Err()
	}()
}

var _ Store = (*RedisStore)(nil)
