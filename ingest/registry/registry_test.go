package registry

import (
	"testing"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

func TestHolder_SwapPublishesAtomically(t *testing.T) {
	h := NewHolder()
	if len(h.Load().Categories()) != 0 {
		t.Fatal("expected empty initial registry")
	}

	h.Swap(domain.IntentRegistrySnapshot{
		Categories: []domain.CategoryDef{
			{Name: "billing", Intents: []domain.IntentDef{{Name: "refund"}}},
		},
	})

	reg := h.Load()
	if _, ok := reg.Category("billing"); !ok {
		t.Fatal("expected billing category to be published")
	}
	if _, ok := reg.Intent("billing", "refund"); !ok {
		t.Fatal("expected refund intent to be published")
	}
	if _, ok := reg.Intent("billing", "nonexistent"); ok {
		t.Fatal("expected lookup of unknown intent to fail")
	}
}
