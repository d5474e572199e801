package bm25

import "testing"

func TestIndex_RanksExactTermMatchHighest(t *testing.T) {
	idx := Build([]Doc{
		{ID: "1", Text: "how to reset your password and login again"},
		{ID: "2", Text: "how to update your billing address"},
		{ID: "3", Text: "password reset instructions for account recovery"},
	})

	results := idx.Search("reset password", 3)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].ID != "1" && results[0].ID != "3" {
		t.Fatalf("expected doc 1 or 3 to rank first, got %s", results[0].ID)
	}
}

func TestIndex_EmptyCorpus(t *testing.T) {
	idx := Build(nil)
	if results := idx.Search("anything", 5); results != nil {
		t.Fatalf("expected nil results for empty corpus, got %v", results)
	}
}

func TestIndex_NoMatches(t *testing.T) {
	idx := Build([]Doc{{ID: "1", Text: "totally unrelated content"}})
	if results := idx.Search("zzz nonexistent", 5); len(results) != 0 {
		t.Fatalf("expected no matches, got %v", results)
	}
}
