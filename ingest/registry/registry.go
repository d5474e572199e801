// Package registry holds the atomically-swapped snapshot of the committed
// category/intent taxonomy, read by classification during ingestion and by
// the dialog router's handoff check.
package registry

import (
	"sync/atomic"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

// Registry is a read-only view over the current taxonomy snapshot. Callers
// never mutate a Registry in place; Swap installs a freshly built one.
type Registry struct {
	snapshot domain.IntentRegistrySnapshot
}

// Holder atomically publishes Registry snapshots so readers never observe a
// partially-built taxonomy while a commit is rebuilding it.
type Holder struct {
	ptr atomic.Pointer[Registry]
}

// NewHolder starts with an empty registry; callers typically call Swap once
// at startup after loading the current taxonomy from the graph store.
func NewHolder() *Holder {
	h := &Holder{}
	h.ptr.Store(&Registry{})
	return h
}

// Swap atomically installs a new snapshot, returning the previous one.
func (h *Holder) Swap(snapshot domain.IntentRegistrySnapshot) *Registry {
	next := &Registry{snapshot: snapshot}
	return h.ptr.Swap(next)
}

// Load returns the currently published Registry.
func (h *Holder) Load() *Registry {
	return h.ptr.Load()
}

// Category looks up a category by name.
func (r *Registry) Category(name string) (domain.CategoryDef, bool) {
	for _, c := range r.snapshot.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return domain.CategoryDef{}, false
}

// Intent looks up an intent by (category, intent) name pair.
func (r *Registry) Intent(category, intent string) (domain.IntentDef, bool) {
	c, ok := r.Category(category)
	if !ok {
		return domain.IntentDef{}, false
	}
	for _, i := range c.Intents {
		if i.Name == intent {
			return i, true
		}
	}
	return domain.IntentDef{}, false
}

// Categories returns every category currently published.
func (r *Registry) Categories() []domain.CategoryDef {
	return r.snapshot.Categories
}
