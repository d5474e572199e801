package rerank

import (
	"context"
	"testing"
)

type fakeCrossEncoder struct {
	scores map[string]float64
}

func (f *fakeCrossEncoder) Score(_ context.Context, _ string, candidates []Candidate) ([]Scored, error) {
	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		out[i] = Scored{Candidate: c, Score: f.scores[c.PairID]}
	}
	return out, nil
}

func TestRerank_SortsByDescendingScore(t *testing.T) {
	ce := &fakeCrossEncoder{scores: map[string]float64{"a": 0.2, "b": 0.9, "c": 0.5}}
	candidates := []Candidate{{PairID: "a"}, {PairID: "b"}, {PairID: "c"}}

	got, err := Rerank(context.Background(), ce, "q", candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected topK=2, got %d", len(got))
	}
	if got[0].PairID != "b" || got[1].PairID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestEmbedCrossEncoder_Score(t *testing.T) {
	embed := &fakeEmbedClient{
		single: []float32{1, 0},
		batch:  [][]float32{{1, 0}, {0, 1}},
	}
	ce := NewEmbedCrossEncoder(embed)

	scored, err := ce.Score(context.Background(), "q", []Candidate{{PairID: "same"}, {PairID: "orthogonal"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scored[0].Score <= scored[1].Score {
		t.Fatalf("expected same-direction candidate to score higher: %+v", scored)
	}
}

type fakeEmbedClient struct {
	single []float32
	batch  [][]float32
}

func (f *fakeEmbedClient) Embed(_ context.Context, _ string) ([]float32, error) { return f.single, nil }
func (f *fakeEmbedClient) EmbedBatch(_ context.Context, _ []string) ([][]float32, error) {
	return f.batch, nil
}
