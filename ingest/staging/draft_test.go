package staging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/store/kv"
)

type memStore struct {
	mu    sync.Mutex
	data  map[string]string
	locks map[string]bool
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}, locks: map[string]bool{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Incr(context.Context, string) (int64, error) { return 0, nil }
func (m *memStore) LPush(context.Context, string, string) error { return nil }
func (m *memStore) BRPop(context.Context, string, time.Duration) (string, bool, error) {
	return "", false, nil
}

func (m *memStore) Lock(_ context.Context, name string, _ time.Duration) (kv.Unlock, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[name] {
		return nil, false, nil
	}
	m.locks[name] = true
	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.locks, name)
		return nil
	}, true, nil
}

func sampleChunks() []domain.DraftChunk {
	return []domain.DraftChunk{
		{
			ChunkID: "c1",
			Pair: domain.QAPair{
				Question: "why was I charged twice",
				Answer:   "we issued a refund",
				Metadata: domain.QAMetadata{Category: "billing", Intent: "refund", Confidence: 0.9},
			},
		},
		{
			ChunkID: "c2",
			Pair: domain.QAPair{
				Question: "how do I reset my password",
				Answer:   "use the reset link",
				Metadata: domain.QAMetadata{Category: "account", Intent: "password", Confidence: 0.8},
			},
		},
	}
}

func TestStore_CreateAndGetRoundTrips(t *testing.T) {
	s := NewStore(newMemStore(), time.Hour)
	draft, err := s.Create(context.Background(), "pairs.json", sampleChunks())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Status != domain.DraftPending {
		t.Fatalf("expected pending status, got %s", draft.Status)
	}

	loaded, err := s.Get(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(loaded.Chunks))
	}
}

func TestStore_PatchReassignsChunkByID(t *testing.T) {
	s := NewStore(newMemStore(), time.Hour)
	draft, _ := s.Create(context.Background(), "pairs.json", sampleChunks())

	patched, err := s.Patch(context.Background(), draft.ID, []ChunkEdit{
		{ChunkID: "c1", Category: "refunds"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patched.Status != domain.DraftReviewed {
		t.Fatalf("expected reviewed status, got %s", patched.Status)
	}
	if patched.Chunks[0].Pair.Metadata.Category != "refunds" {
		t.Fatalf("expected category patched, got %+v", patched.Chunks[0])
	}
	if patched.Chunks[1].Pair.Metadata.Category != "account" {
		t.Fatal("expected untouched chunk to be left alone")
	}
}

func TestStore_PatchIsIdempotentOnChunkID(t *testing.T) {
	s := NewStore(newMemStore(), time.Hour)
	draft, _ := s.Create(context.Background(), "pairs.json", sampleChunks())

	edit := []ChunkEdit{{ChunkID: "c1", Category: "refunds"}}
	first, err := s.Patch(context.Background(), draft.ID, edit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.Patch(context.Background(), first.ID, edit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Chunks[0].Pair.Metadata.Category != "refunds" {
		t.Fatalf("expected repeated patch to be a no-op, got %+v", second.Chunks[0])
	}
}

func TestStore_PatchRejectsAlreadyCommittedDraft(t *testing.T) {
	s := NewStore(newMemStore(), time.Hour)
	draft, _ := s.Create(context.Background(), "pairs.json", sampleChunks())
	draft.Status = domain.DraftCommitted
	if err := s.Save(context.Background(), draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Patch(context.Background(), draft.ID, []ChunkEdit{{ChunkID: "c1", Category: "x"}}); err == nil {
		t.Fatal("expected patching a committed draft to fail")
	}
}

func TestStore_LockRejectsConcurrentHolder(t *testing.T) {
	s := NewStore(newMemStore(), time.Hour)
	draft, _ := s.Create(context.Background(), "pairs.json", sampleChunks())

	_, ok, err := s.Lock(context.Background(), draft.ID)
	if err != nil || !ok {
		t.Fatalf("expected first lock to succeed: ok=%v err=%v", ok, err)
	}
	_, ok, err = s.Lock(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected second lock attempt to fail while held")
	}
}
