package hybrid

import (
	"context"
	"testing"

	"github.com/WessleyAI/wessley-support-rag/search/bm25"
	"github.com/WessleyAI/wessley-support-rag/store/vector"
)

type fakeVectorStore struct {
	byCategory map[string][]vector.Result
	all        []vector.Result
	calls      []map[string]string
}

func (f *fakeVectorStore) EnsureCollection(context.Context, int) error { return nil }
func (f *fakeVectorStore) Upsert(context.Context, []vector.Record) error { return nil }
func (f *fakeVectorStore) DeleteByPairID(context.Context, string) error { return nil }

func (f *fakeVectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]vector.Result, error) {
	return f.SearchFiltered(ctx, embedding, topK, nil)
}

func (f *fakeVectorStore) SearchFiltered(_ context.Context, _ []float32, _ int, filters map[string]string) ([]vector.Result, error) {
	f.calls = append(f.calls, filters)
	if cat, ok := filters["category"]; ok {
		return f.byCategory[cat], nil
	}
	return f.all, nil
}

func (f *fakeVectorStore) Close() error { return nil }

func TestSearchFiltered_ScopesVectorLegToCategory(t *testing.T) {
	vecStore := &fakeVectorStore{
		byCategory: map[string][]vector.Result{"billing": {{PairID: "p-billing"}}},
		all:        []vector.Result{{PairID: "p-billing"}, {PairID: "p-account"}},
	}
	lexical := bm25.Build([]bm25.Doc{{ID: "p-billing", Text: "refund"}, {ID: "p-account", Text: "reset"}})
	svc := New(vecStore, lexical, 0.5)

	hits, err := svc.SearchFiltered(context.Background(), []float32{1, 0, 0}, "refund", 5, "billing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, h := range hits {
		if h.PairID == "p-billing" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected p-billing among fused hits, got %+v", hits)
	}
	if vecStore.calls[0]["category"] != "billing" {
		t.Fatalf("expected the vector leg to be scoped to the category, got %+v", vecStore.calls[0])
	}
}

func TestSearchFiltered_FallsBackWhenCategoryHasNoResults(t *testing.T) {
	vecStore := &fakeVectorStore{
		byCategory: map[string][]vector.Result{},
		all:        []vector.Result{{PairID: "p-account"}},
	}
	lexical := bm25.Build([]bm25.Doc{{ID: "p-account", Text: "reset password"}})
	svc := New(vecStore, lexical, 0.5)

	hits, err := svc.SearchFiltered(context.Background(), []float32{1, 0, 0}, "reset password", 5, "newly-added-category")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecStore.calls) != 2 {
		t.Fatalf("expected a fallback call without the category filter, got %d calls", len(vecStore.calls))
	}
	if _, ok := vecStore.calls[1]["category"]; ok {
		t.Fatal("expected the fallback call to drop the category filter")
	}
	found := false
	for _, h := range hits {
		if h.PairID == "p-account" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the fallback search to surface p-account, got %+v", hits)
	}
}

func TestSearchFiltered_IgnoresUncategorized(t *testing.T) {
	vecStore := &fakeVectorStore{all: []vector.Result{{PairID: "p1"}}}
	lexical := bm25.Build([]bm25.Doc{{ID: "p1", Text: "hello"}})
	svc := New(vecStore, lexical, 0.5)

	if _, err := svc.SearchFiltered(context.Background(), []float32{1}, "hello", 5, "uncategorized"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := vecStore.calls[0]["category"]; ok {
		t.Fatal("expected uncategorized to not be used as a filter")
	}
}
