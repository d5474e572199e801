// Package rerank scores (query, candidate) pairs with a cross-encoder model
// to refine the hybrid search's fused ranking before context assembly.
package rerank

import "context"

// Candidate is one fused hit awaiting a cross-encoder score.
type Candidate struct {
	PairID   string
	Question string
	Answer   string
}

// Scored is a candidate with its cross-encoder relevance score.
type Scored struct {
	Candidate
	Score float64
}

// CrossEncoder is a thin capability interface over a (query, candidate)
// scorer. The implementation in this package, EmbedCrossEncoder, scores by
// cosine similarity of embeddings from a modelclient.EmbedClient.
type CrossEncoder interface {
	Score(ctx context.Context, query string, candidates []Candidate) ([]Scored, error)
}

// Rerank scores every candidate and returns them sorted by descending
// relevance, truncated to topK.
func Rerank(ctx context.Context, ce CrossEncoder, query string, candidates []Candidate, topK int) ([]Scored, error) {
	scored, err := ce.Score(ctx, query, candidates)
	if err != nil {
		return nil, err
	}
	sortByScoreDesc(scored)
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func sortByScoreDesc(s []Scored) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Score < s[j].Score; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
