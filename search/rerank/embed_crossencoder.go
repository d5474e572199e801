package rerank

import (
	"context"
	"fmt"
	"math"

	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

// EmbedCrossEncoder scores candidates by cosine similarity between the
// query embedding and each candidate's question embedding, reusing the
// pipeline's existing modelclient.EmbedClient connection rather than
// requiring a dedicated cross-encoder endpoint.
type EmbedCrossEncoder struct {
	embed modelclient.EmbedClient
}

// NewEmbedCrossEncoder creates a CrossEncoder backed by an embedding client.
func NewEmbedCrossEncoder(embed modelclient.EmbedClient) *EmbedCrossEncoder {
	return &EmbedCrossEncoder{embed: embed}
}

// Score satisfies CrossEncoder.
func (e *EmbedCrossEncoder) Score(ctx context.Context, query string, candidates []Candidate) ([]Scored, error) {
	queryVec, err := e.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rerank: embed query: %w", err)
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Question
	}
	vecs, err := e.embed.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("rerank: embed candidates: %w", err)
	}

	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		out[i] = Scored{Candidate: c, Score: cosine(queryVec, vecs[i])}
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

var _ CrossEncoder = (*EmbedCrossEncoder)(nil)
