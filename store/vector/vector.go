// Package vector defines the vector-store capability interface used by
// hybrid search and the cache's semantic fallback, with a Qdrant-backed
// implementation.
package vector

import "context"

// Record is one embedded QAPair ready for upsert.
type Record struct {
	ID       string
	Vector   []float32
	Payload  map[string]any
}

// Result is one k-NN hit.
type Result struct {
	ID       string
	Score    float32
	Content  string
	PairID   string
	Meta     map[string]string
}

// Store is the capability interface the pipeline and ingestion commit depend
// on. Implementations: Qdrant (qdrant.go).
type Store interface {
	EnsureCollection(ctx context.Context, dims int) error
	Upsert(ctx context.Context, records []Record) error
	DeleteByPairID(ctx context.Context, pairID string) error
	Search(ctx context.Context, embedding []float32, topK int) ([]Result, error)
	SearchFiltered(ctx context.Context, embedding []float32, topK int, filters map[string]string) ([]Result, error)
	Close() error
}
