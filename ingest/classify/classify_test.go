package classify

import (
	"context"
	"testing"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/ingest/registry"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

type fakeEmbed struct {
	vec []float32
}

func (f *fakeEmbed) Embed(context.Context, string) ([]float32, error) { return f.vec, nil }
func (f *fakeEmbed) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

type fakeChat struct {
	text string
}

func (f *fakeChat) Chat(context.Context, modelclient.ChatRequest) (modelclient.ChatResponse, error) {
	return modelclient.ChatResponse{Text: f.text}, nil
}

func seededHolder() *registry.Holder {
	h := registry.NewHolder()
	h.Swap(domain.IntentRegistrySnapshot{
		Categories: []domain.CategoryDef{
			{
				Name: "billing",
				Intents: []domain.IntentDef{
					{Name: "refund", Exemplar: []float32{1, 0, 0}},
					{Name: "invoice", Exemplar: []float32{0, 1, 0}},
				},
			},
		},
	})
	return h
}

func TestClassify_MatchesNearestCategoryAndIntent(t *testing.T) {
	c := NewClassifier(&fakeEmbed{vec: []float32{0.98, 0.05, 0}}, &fakeChat{}, seededHolder())

	result, err := c.Classify(context.Background(), "why was I charged twice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != "billing" || result.Intent != "refund" {
		t.Fatalf("unexpected classification: %+v", result)
	}
	if result.Handoff {
		t.Fatal("expected no handoff for an ordinary billing question")
	}
}

func TestClassify_FallsBackToUncategorizedOnLowConfidence(t *testing.T) {
	c := NewClassifier(&fakeEmbed{vec: []float32{0, 0, 1}}, &fakeChat{text: "answerable"}, seededHolder())

	result, err := c.Classify(context.Background(), "can you recommend a good coffee shop nearby")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != uncategorized {
		t.Fatalf("expected uncategorized, got %+v", result)
	}
}

func TestClassify_KeywordTriggersHandoffWithoutModelCall(t *testing.T) {
	c := NewClassifier(&fakeEmbed{vec: []float32{1, 0, 0}}, nil, seededHolder())

	result, err := c.Classify(context.Background(), "I want to talk to a human about my refund")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Handoff {
		t.Fatal("expected explicit human request to trigger handoff")
	}
}

func TestClassify_AmbiguousConfidenceUsesLLMTieBreak(t *testing.T) {
	c := NewClassifier(&fakeEmbed{vec: []float32{0.35, 0.35, 0.87}}, &fakeChat{text: "handoff"}, seededHolder())

	result, err := c.Classify(context.Background(), "this is complicated and not going well")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Handoff {
		t.Fatal("expected LLM tie-break to escalate an ambiguous borderline question")
	}
}

func TestBuildExemplars_GroupsExamplesByCluster(t *testing.T) {
	examples := []domain.IntentExample{
		{Utterance: "a", Embedding: []float32{1, 0}},
		{Utterance: "b", Embedding: []float32{0.9, 0.1}},
		{Utterance: "c", Embedding: []float32{0, 1}},
		{Utterance: "d", Embedding: []float32{0.1, 0.9}},
	}

	defs := BuildExemplars(examples, 2)
	if len(defs) != 2 {
		t.Fatalf("expected 2 intent defs, got %d", len(defs))
	}
	total := 0
	for _, d := range defs {
		total += len(d.Examples)
	}
	if total != len(examples) {
		t.Fatalf("expected all examples assigned, got %d of %d", total, len(examples))
	}
}
