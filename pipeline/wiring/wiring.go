// Package wiring assembles the default query-answering graph from the node
// library, the one place in the module allowed to import both the graph
// engine and every node package without risking an import cycle.
package wiring

import (
	"log/slog"
	"time"

	"github.com/WessleyAI/wessley-support-rag/cache"
	"github.com/WessleyAI/wessley-support-rag/ingest/classify"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
	graphengine "github.com/WessleyAI/wessley-support-rag/pipeline/graph"
	cachenode "github.com/WessleyAI/wessley-support-rag/pipeline/node/cache"
	dialognode "github.com/WessleyAI/wessley-support-rag/pipeline/node/dialog"
	generatenode "github.com/WessleyAI/wessley-support-rag/pipeline/node/generate"
	guardrailnode "github.com/WessleyAI/wessley-support-rag/pipeline/node/guardrail"
	retrievalnode "github.com/WessleyAI/wessley-support-rag/pipeline/node/retrieval"
	"github.com/WessleyAI/wessley-support-rag/search/hybrid"
	"github.com/WessleyAI/wessley-support-rag/search/rerank"
	"github.com/WessleyAI/wessley-support-rag/store/graph"
	"github.com/WessleyAI/wessley-support-rag/store/relational"
	"github.com/WessleyAI/wessley-support-rag/store/vector"
)

const defaultCacheTTL = time.Hour

// Dependencies are the concrete collaborators the default graph wires in.
// VectorStore and Classifier are optional: when either is nil, the cache's
// semantic fallback and the retrieval category filter are skipped and the
// graph behaves as an exact-key, unfiltered pipeline.
type Dependencies struct {
	CacheStore        cache.Store
	CacheTTL          time.Duration
	VectorStore       vector.Store
	SemanticThreshold float64
	Embed             modelclient.EmbedClient
	Chat              modelclient.ChatClient
	Hybrid            *hybrid.Service
	Pairs             relational.Store
	Taxonomy          graph.Store
	CrossEncoder      rerank.CrossEncoder
	Classifier        *classify.Classifier
	Logger            *slog.Logger
}

// BuildDefault compiles the production query graph: guardrail, cache
// short-circuit, query classification, hybrid retrieval, multi-hop
// expansion, generation, and the output guardrail, followed by dialog
// routing and a cache write-back. Strict mode is always on: every node's
// declared contract is enforced at runtime, not just at construction time.
func BuildDefault(deps Dependencies) (*graphengine.Engine, error) {
	input := guardrailnode.NewInput()

	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	var lookup *cachenode.Lookup
	var write *cachenode.Write
	if deps.VectorStore != nil {
		lookup = cachenode.NewSemanticLookup(deps.CacheStore, deps.VectorStore, deps.Embed, deps.SemanticThreshold)
		write = cachenode.NewSemanticWrite(deps.CacheStore, deps.VectorStore, deps.Embed, ttl)
	} else {
		lookup = cachenode.NewLookup(deps.CacheStore)
		write = cachenode.NewWrite(deps.CacheStore, ttl)
	}

	classifyNode := retrievalnode.NewClassify(deps.Classifier)
	search := retrievalnode.NewSearch(deps.Embed, deps.Hybrid, deps.Pairs, deps.CrossEncoder)
	multihop := retrievalnode.NewMultiHop(deps.Taxonomy, deps.Pairs)
	answer := generatenode.NewAnswer(deps.Chat)
	sources := generatenode.NewSources()
	output := guardrailnode.NewOutput()
	route := dialognode.NewRoute()

	configs := []graphengine.NodeConfig{
		{
			Node:  input,
			Apply: guardrailnode.ApplyInput,
			Route: func(s *pipeline.State) (string, bool) {
				if s.Blocked {
					return "dialog.route", true
				}
				return "", false
			},
		},
		{
			Node:  lookup,
			Apply: cachenode.ApplyLookup,
			Route: func(s *pipeline.State) (string, bool) {
				if s.CacheHit {
					return "dialog.route", true
				}
				return "", false
			},
		},
		{
			Node:     classifyNode,
			Apply:    retrievalnode.ApplyClassify,
			Policy:   graphengine.Recover,
			Disabled: func(*pipeline.State) bool { return deps.Classifier == nil },
		},
		{Node: search, Apply: retrievalnode.ApplySearch, Policy: graphengine.Fatal},
		{Node: multihop, Apply: retrievalnode.ApplyMultiHop, Policy: graphengine.Fatal},
		{Node: answer, Apply: generatenode.ApplyAnswer, Policy: graphengine.Recover},
		{Node: output, Apply: guardrailnode.ApplyOutput},
		{Node: sources, Apply: generatenode.ApplySources},
		{Node: route, Apply: dialognode.ApplyRoute},
		{
			Node:   write,
			Policy: graphengine.Recover,
			Disabled: func(s *pipeline.State) bool {
				return s.Blocked || s.CacheHit
			},
		},
	}

	return graphengine.New(deps.Logger, configs, graphengine.Strict())
}
