package cache

import (
	"context"
	"time"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

// Options configures the cache layer. SemanticThreshold has no default —
// the zero value is invalid and Validate rejects it, so an operator cannot
// silently run with semantic caching disabled by omission.
type Options struct {
	TTL               time.Duration
	SemanticThreshold float64
}

// Validate rejects a zero-value SemanticThreshold.
func (o Options) Validate() error {
	if o.SemanticThreshold <= 0 || o.SemanticThreshold > 1 {
		return domain.NewValidationError("semantic_threshold", "", domain.ErrEmptyField)
	}
	return nil
}

// Store is the capability interface the cache pipeline node depends on.
// Implementations: LRU (lru.go, in-memory), Redis (redis.go).
type Store interface {
	Get(ctx context.Context, key string) (domain.CacheEntry, bool, error)
	Set(ctx context.Context, entry domain.CacheEntry) error
	BumpHit(ctx context.Context, key string)
}
