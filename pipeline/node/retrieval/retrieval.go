// Package retrieval holds the nodes that turn a normalized question into
// merged, grounded context: hybrid search, cross-encoder rerank, and
// multi-hop graph expansion.
package retrieval

import (
	"context"

	"github.com/WessleyAI/wessley-support-rag/ingest/classify"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
	"github.com/WessleyAI/wessley-support-rag/search/hybrid"
	"github.com/WessleyAI/wessley-support-rag/search/multihop"
	"github.com/WessleyAI/wessley-support-rag/search/rerank"
	"github.com/WessleyAI/wessley-support-rag/store/graph"
	"github.com/WessleyAI/wessley-support-rag/store/relational"
)

const (
	defaultTopK            = 8
	defaultRerankTopK      = 4
	defaultMaxHops         = 2
	defaultContextBudget   = 1200
	multiHopScoreThreshold = 0.5
)

// Classify assigns a category, intent, and handoff signal to the question
// using the same nearest-centroid taxonomy lookup ingestion uses for
// chunks, so retrieval can scope its vector leg to the matching category.
type Classify struct {
	classifier *classify.Classifier
}

func NewClassify(c *classify.Classifier) *Classify { return &Classify{classifier: c} }

func (n *Classify) Name() string { return "retrieval.classify" }

func (n *Classify) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:    []string{"normalized_question"},
		GuaranteedOutputs: []string{"category", "intent", "requires_handoff"},
	}
}

func (n *Classify) Execute(ctx context.Context, state *pipeline.State) (pipeline.Patch, error) {
	result, err := n.classifier.Classify(ctx, state.NormalizedQuestion)
	if err != nil {
		return nil, err
	}
	return pipeline.Patch{
		"category":         result.Category,
		"intent":           result.Intent,
		"requires_handoff": result.Handoff,
	}, nil
}

// ApplyClassify folds a Classify node's Patch into State.
func ApplyClassify(s *pipeline.State, p pipeline.Patch) {
	s.Category = p["category"].(string)
	s.Intent = p["intent"].(string)
	s.RequiresHandoff = p["requires_handoff"].(bool)
}

// Search runs hybrid retrieval, hydrates fused pair IDs from the
// relational store, and reranks with a cross-encoder.
type Search struct {
	embed   modelclient.EmbedClient
	hybrid  *hybrid.Service
	pairs   relational.Store
	rerank  rerank.CrossEncoder
	topK    int
	rerankK int
}

func NewSearch(embed modelclient.EmbedClient, h *hybrid.Service, pairs relational.Store, ce rerank.CrossEncoder) *Search {
	return &Search{embed: embed, hybrid: h, pairs: pairs, rerank: ce, topK: defaultTopK, rerankK: defaultRerankTopK}
}

func (n *Search) Name() string { return "retrieval.search" }

func (n *Search) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:    []string{"normalized_question"},
		OptionalInputs:    []string{"category"},
		GuaranteedOutputs: []string{"fused", "reranked", "complexity_score"},
	}
}

func (n *Search) Execute(ctx context.Context, state *pipeline.State) (pipeline.Patch, error) {
	embedding, err := n.embed.Embed(ctx, state.NormalizedQuestion)
	if err != nil {
		return nil, err
	}

	hits, err := n.hybrid.SearchFiltered(ctx, embedding, state.NormalizedQuestion, n.topK, state.Category)
	if err != nil {
		return nil, err
	}

	candidates := make([]rerank.Candidate, 0, len(hits))
	docs := make(map[string]pipeline.FusedDoc, len(hits))
	for _, h := range hits {
		pair, err := n.pairs.GetPair(ctx, h.PairID)
		if err != nil {
			continue
		}
		candidates = append(candidates, rerank.Candidate{PairID: pair.ID, Question: pair.Question, Answer: pair.Answer})
		docs[pair.ID] = pipeline.FusedDoc{
			PairID:   pair.ID,
			Question: pair.Question,
			Answer:   pair.Answer,
			Category: pair.Metadata.Category,
			Intent:   pair.Metadata.Intent,
			Score:    h.Score,
		}
	}

	scored, err := rerank.Rerank(ctx, n.rerank, state.NormalizedQuestion, candidates, n.rerankK)
	if err != nil {
		return nil, err
	}

	reranked := make([]pipeline.FusedDoc, 0, len(scored))
	fused := make([]pipeline.FusedDoc, 0, len(docs))
	for _, d := range docs {
		fused = append(fused, d)
	}
	for _, s := range scored {
		d := docs[s.PairID]
		d.Score = s.Score
		reranked = append(reranked, d)
	}

	return pipeline.Patch{
		"fused":            fused,
		"reranked":         reranked,
		"complexity_score": multihop.Score(state.NormalizedQuestion),
	}, nil
}

// ApplySearch folds a Search node's Patch into State.
func ApplySearch(s *pipeline.State, p pipeline.Patch) {
	s.Fused = p["fused"].([]pipeline.FusedDoc)
	s.Reranked = p["reranked"].([]pipeline.FusedDoc)
	s.ComplexityScore = p["complexity_score"].(float64)
}

// MultiHop expands the top reranked pair across "see also" edges when the
// question's complexity score suggests a single pair is insufficient, then
// merges everything into a token-budgeted context.
type MultiHop struct {
	graph       graph.Store
	pairs       relational.Store
	maxHops     int
	tokenBudget int
	scoreCutoff float64
}

func NewMultiHop(g graph.Store, pairs relational.Store) *MultiHop {
	return &MultiHop{graph: g, pairs: pairs, maxHops: defaultMaxHops, tokenBudget: defaultContextBudget, scoreCutoff: multiHopScoreThreshold}
}

func (n *MultiHop) Name() string { return "retrieval.multihop" }

func (n *MultiHop) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:    []string{"reranked", "complexity_score"},
		GuaranteedOutputs: []string{"merged_context", "hops_used"},
	}
}

func (n *MultiHop) Execute(ctx context.Context, state *pipeline.State) (pipeline.Patch, error) {
	if len(state.Reranked) == 0 {
		return pipeline.Patch{"merged_context": []multihop.Context{}, "hops_used": 0}, nil
	}

	primary := state.Reranked[0]
	contexts := []multihop.Context{{
		PairID:    primary.PairID,
		Question:  primary.Question,
		Answer:    primary.Answer,
		Relevance: 1,
		IsPrimary: true,
	}}

	hopsUsed := 0
	if state.ComplexityScore >= n.scoreCutoff {
		hops, err := multihop.Expand(ctx, n.graph, primary.PairID, n.maxHops)
		if err != nil {
			return nil, err
		}
		for _, h := range hops {
			pair, err := n.pairs.GetPair(ctx, h.PairID)
			if err != nil {
				continue
			}
			contexts = append(contexts, multihop.Context{
				PairID:    pair.ID,
				Question:  pair.Question,
				Answer:    pair.Answer,
				Relevance: 0.5,
			})
			hopsUsed++
		}
	}

	// fold in remaining reranked candidates as lower-relevance context
	for i, d := range state.Reranked {
		if i == 0 {
			continue
		}
		contexts = append(contexts, multihop.Context{
			PairID:    d.PairID,
			Question:  d.Question,
			Answer:    d.Answer,
			Relevance: d.Score,
		})
	}

	merged := multihop.Merge(contexts, n.tokenBudget)
	return pipeline.Patch{"merged_context": merged, "hops_used": hopsUsed}, nil
}

// ApplyMultiHop folds a MultiHop node's Patch into State.
func ApplyMultiHop(s *pipeline.State, p pipeline.Patch) {
	s.MergedContext = p["merged_context"].([]multihop.Context)
	s.HopsUsed = p["hops_used"].(int)
	s.Telemetry.HopsUsed = s.HopsUsed
}
