// Package cache holds the pipeline's answer-cache lookup and write-back
// nodes, routing around retrieval entirely on a hit.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WessleyAI/wessley-support-rag/cache"
	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
	"github.com/WessleyAI/wessley-support-rag/store/vector"
)

// cacheKind tags the payload of a cache entry's vector so the semantic
// lookup's SearchFiltered call never matches a QA-pair vector sitting in
// the same collection.
const cacheKind = "cache"

// Lookup computes the normalized cache key and, on an exact or semantic
// hit, supplies the cached answer so the graph engine can skip straight to
// dialog routing.
type Lookup struct {
	store       cache.Store
	vectorStore vector.Store
	embed       modelclient.EmbedClient
	threshold   float64
}

// NewLookup builds a Lookup that only performs exact-key lookups. Use
// NewSemanticLookup to additionally fall back to a cosine-similarity search
// against the vector store when the exact key misses.
func NewLookup(store cache.Store) *Lookup { return &Lookup{store: store} }

// NewSemanticLookup builds a Lookup that falls back to a vector-store
// nearest-neighbor search, tagged kind=cache, when the exact key misses.
// threshold is the minimum cosine similarity to accept a semantic match.
func NewSemanticLookup(store cache.Store, vectorStore vector.Store, embed modelclient.EmbedClient, threshold float64) *Lookup {
	return &Lookup{store: store, vectorStore: vectorStore, embed: embed, threshold: threshold}
}

func (n *Lookup) Name() string { return "cache.lookup" }

func (n *Lookup) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:     []string{"normalized_question"},
		GuaranteedOutputs:  []string{"cache_key", "cache_hit"},
		ConditionalOutputs: []string{"answer", "confidence", "sources"},
	}
}

func (n *Lookup) Execute(ctx context.Context, state *pipeline.State) (pipeline.Patch, error) {
	key := cache.NormalizeKey(state.NormalizedQuestion)
	patch := pipeline.Patch{"cache_key": key, "cache_hit": false}

	entry, ok, err := n.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok && n.vectorStore != nil {
		entry, ok, err = n.semanticLookup(ctx, state.NormalizedQuestion)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return patch, nil
	}

	n.store.BumpHit(ctx, entry.Key)
	patch["cache_hit"] = true
	patch["answer"] = entry.Answer
	patch["confidence"] = entry.Confidence
	if len(entry.DocIDs) > 0 {
		sources := make([]domain.SourceRef, len(entry.DocIDs))
		for i, id := range entry.DocIDs {
			sources[i] = domain.SourceRef{PairID: id, Relevance: entry.Confidence}
		}
		patch["sources"] = sources
	}
	return patch, nil
}

// semanticLookup embeds question and searches the vector store for an
// existing cache entry within the configured similarity threshold,
// resolving the match back to its full entry by the cache_key carried in
// the vector payload.
func (n *Lookup) semanticLookup(ctx context.Context, question string) (domain.CacheEntry, bool, error) {
	embedding, err := n.embed.Embed(ctx, question)
	if err != nil {
		return domain.CacheEntry{}, false, err
	}
	results, err := n.vectorStore.SearchFiltered(ctx, embedding, 1, map[string]string{"kind": cacheKind})
	if err != nil {
		return domain.CacheEntry{}, false, err
	}
	if len(results) == 0 || float64(results[0].Score) < n.threshold {
		return domain.CacheEntry{}, false, nil
	}
	cacheKey, ok := results[0].Meta["cache_key"]
	if !ok {
		return domain.CacheEntry{}, false, nil
	}
	return n.store.Get(ctx, cacheKey)
}

// ApplyLookup folds a Lookup node's Patch into State.
func ApplyLookup(s *pipeline.State, p pipeline.Patch) {
	s.CacheKey = p["cache_key"].(string)
	s.CacheHit = p["cache_hit"].(bool)
	if answer, ok := p["answer"].(string); ok {
		s.Answer = answer
	}
	if confidence, ok := p["confidence"].(float64); ok {
		s.Confidence = confidence
	}
	if sources, ok := p["sources"].([]domain.SourceRef); ok {
		s.Sources = sources
	}
}

// Write persists a freshly generated answer under the already-computed
// cache key so future identical questions short-circuit through Lookup,
// and, when a vector store is configured, indexes the question's embedding
// under kind=cache so a near-duplicate phrasing can hit semantically.
type Write struct {
	store       cache.Store
	vectorStore vector.Store
	embed       modelclient.EmbedClient
	ttl         time.Duration
}

func NewWrite(store cache.Store, ttl time.Duration) *Write { return &Write{store: store, ttl: ttl} }

// NewSemanticWrite builds a Write that also upserts a kind=cache vector so
// NewSemanticLookup can find this entry by cosine similarity later.
func NewSemanticWrite(store cache.Store, vectorStore vector.Store, embed modelclient.EmbedClient, ttl time.Duration) *Write {
	return &Write{store: store, vectorStore: vectorStore, embed: embed, ttl: ttl}
}

func (n *Write) Name() string { return "cache.write" }

func (n *Write) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs: []string{"cache_key", "answer"},
	}
}

func (n *Write) Execute(ctx context.Context, state *pipeline.State) (pipeline.Patch, error) {
	if state.Blocked || state.Action == domain.ActionEscalate {
		return nil, nil
	}
	docIDs := make([]string, len(state.Sources))
	for i, src := range state.Sources {
		docIDs[i] = src.PairID
	}
	entry := domain.CacheEntry{
		Key:        state.CacheKey,
		Query:      state.NormalizedQuestion,
		Answer:     state.Answer,
		DocIDs:     docIDs,
		Confidence: state.Confidence,
		TTL:        n.ttl,
	}
	if err := n.store.Set(ctx, entry); err != nil {
		return nil, err
	}
	if n.vectorStore == nil {
		return nil, nil
	}
	embedding, err := n.embed.Embed(ctx, state.NormalizedQuestion)
	if err != nil {
		return nil, err
	}
	record := vector.Record{
		ID:     uuid.NewString(),
		Vector: embedding,
		Payload: map[string]any{
			"kind":      cacheKind,
			"cache_key": state.CacheKey,
		},
	}
	return nil, n.vectorStore.Upsert(ctx, []vector.Record{record})
}
