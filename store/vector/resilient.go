package vector

import (
	"context"

	"github.com/WessleyAI/wessley-support-rag/pkg/resilience"
)

// Resilient wraps a Store behind a circuit breaker so a degraded vector
// database fails fast instead of stalling every hybrid search call.
type Resilient struct {
	inner   Store
	breaker *resilience.Breaker
}

func NewResilient(inner Store, opts resilience.BreakerOpts) *Resilient {
	return &Resilient{inner: inner, breaker: resilience.NewBreaker(opts)}
}

func (r *Resilient) EnsureCollection(ctx context.Context, dims int) error {
	return r.breaker.Call(ctx, func(ctx context.Context) error { return r.inner.EnsureCollection(ctx, dims) })
}

func (r *Resilient) Upsert(ctx context.Context, records []Record) error {
	return r.breaker.Call(ctx, func(ctx context.Context) error { return r.inner.Upsert(ctx, records) })
}

func (r *Resilient) DeleteByPairID(ctx context.Context, pairID string) error {
	return r.breaker.Call(ctx, func(ctx context.Context) error { return r.inner.DeleteByPairID(ctx, pairID) })
}

func (r *Resilient) Search(ctx context.Context, embedding []float32, topK int) ([]Result, error) {
	var out []Result
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.inner.Search(ctx, embedding, topK)
		return innerErr
	})
	return out, err
}

func (r *Resilient) SearchFiltered(ctx context.Context, embedding []float32, topK int, filters map[string]string) ([]Result, error) {
	var out []Result
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.inner.SearchFiltered(ctx, embedding, topK, filters)
		return innerErr
	})
	return out, err
}

func (r *Resilient) Close() error { return r.inner.Close() }
