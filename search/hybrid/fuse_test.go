package hybrid

import "testing"

func TestFuse_BoostsIDsPresentInBothLegs(t *testing.T) {
	vec := []string{"a", "b", "c"}
	lex := []string{"b", "a", "d"}

	hits := Fuse(vec, lex, 0.5)
	if len(hits) != 4 {
		t.Fatalf("expected 4 fused ids, got %d", len(hits))
	}
	top := hits[0].PairID
	if top != "a" && top != "b" {
		t.Fatalf("expected a or b to rank first, got %s", top)
	}
}

func TestFuse_RespectsAlphaWeighting(t *testing.T) {
	vec := []string{"onlyvec"}
	lex := []string{"onlylex"}

	hits := Fuse(vec, lex, 0.9)
	var vecScore, lexScore float64
	for _, h := range hits {
		if h.PairID == "onlyvec" {
			vecScore = h.Score
		} else {
			lexScore = h.Score
		}
	}
	if vecScore <= lexScore {
		t.Fatalf("expected vector leg to dominate with alpha=0.9: vec=%f lex=%f", vecScore, lexScore)
	}
}

func TestFuse_EmptyInputs(t *testing.T) {
	if hits := Fuse(nil, nil, 0.5); len(hits) != 0 {
		t.Fatalf("expected no hits, got %v", hits)
	}
}
