package multihop

import "testing"

func TestScore_SimpleQuestionIsLow(t *testing.T) {
	if got := Score("reset password"); got > 0.3 {
		t.Fatalf("expected low complexity score, got %f", got)
	}
}

func TestScore_MultiPartQuestionIsHigher(t *testing.T) {
	simple := Score("how do I log in")
	complex := Score("how do I reset my password and then update my billing address because my card expired")
	if complex <= simple {
		t.Fatalf("expected complex question to score higher: simple=%f complex=%f", simple, complex)
	}
}

func TestMerge_NeverTruncatesPrimary(t *testing.T) {
	primary := Context{PairID: "p", Question: strRepeat("word ", 50), Answer: strRepeat("word ", 50), IsPrimary: true}
	hop := Context{PairID: "h", Question: "short", Answer: "short", Relevance: 0.9}

	got := Merge([]Context{primary, hop}, 10)
	if len(got) != 1 || got[0].PairID != "p" {
		t.Fatalf("expected only primary to survive a tight budget, got %+v", got)
	}
}

func TestMerge_DropsLowestRelevanceHopsFirst(t *testing.T) {
	primary := Context{PairID: "p", Question: "q", Answer: "a", IsPrimary: true}
	high := Context{PairID: "high", Question: "b c", Answer: "d e", Relevance: 0.9}
	low := Context{PairID: "low", Question: "f g", Answer: "h i", Relevance: 0.1}

	got := Merge([]Context{primary, low, high}, 6)
	ids := make(map[string]bool)
	for _, c := range got {
		ids[c.PairID] = true
	}
	if !ids["high"] || ids["low"] {
		t.Fatalf("expected high-relevance hop to survive and low to be dropped, got %+v", got)
	}
}

func strRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
