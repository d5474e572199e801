// Package staging holds uploaded chunks in a human-reviewable draft before
// they are committed into the authoritative relational and vector stores.
// Drafts live entirely in the key/value store; the query pipeline never
// sees them.
package staging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/store/kv"
)

const (
	defaultTTL = time.Hour
	lockTTL    = 10 * time.Second
)

// Store holds StagingDraft CRUD against the key/value layer.
type Store struct {
	kv  kv.Store
	ttl time.Duration
}

// NewStore builds a Store with the given default draft TTL (the draft
// TTL resets each time the draft is saved, not on read).
func NewStore(store kv.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{kv: store, ttl: ttl}
}

func draftKey(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

// Create stores a new pending draft built from parsed chunks and their
// auto-classification, returning the assigned draft id.
func (s *Store) Create(ctx context.Context, filename string, chunks []domain.DraftChunk) (domain.StagingDraft, error) {
	draft := domain.StagingDraft{
		ID:        uuid.NewString(),
		Filename:  filename,
		Chunks:    chunks,
		Status:    domain.DraftPending,
		CreatedAt: time.Now(),
		TTL:       s.ttl,
	}
	if err := s.save(ctx, draft); err != nil {
		return domain.StagingDraft{}, err
	}
	return draft, nil
}

// Get loads a draft by id.
func (s *Store) Get(ctx context.Context, id string) (domain.StagingDraft, error) {
	raw, ok, err := s.kv.Get(ctx, draftKey(id))
	if err != nil {
		return domain.StagingDraft{}, fmt.Errorf("staging: get %s: %w", id, err)
	}
	if !ok {
		return domain.StagingDraft{}, domain.NewPipelineError("staging.get", domain.ErrNotFound)
	}
	var draft domain.StagingDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return domain.StagingDraft{}, fmt.Errorf("staging: decode %s: %w", id, err)
	}
	return draft, nil
}

// ChunkEdit is one idempotent-by-chunk-id patch applied during human
// review: fields left at their zero value are left unchanged, and Discard
// can only be set true (a discarded chunk stays discarded; no edit clears
// the flag).
type ChunkEdit struct {
	ChunkID  string
	Category string
	Intent   string
	Question string
	Answer   string
	Discard  bool
}

// Patch applies review edits to a draft's chunks, keyed by chunk id, and
// marks the draft reviewed. Applying the same edit twice is a no-op beyond
// the first application, satisfying the idempotency requirement on
// chunk_id.
func (s *Store) Patch(ctx context.Context, id string, edits []ChunkEdit) (domain.StagingDraft, error) {
	draft, err := s.Get(ctx, id)
	if err != nil {
		return domain.StagingDraft{}, err
	}
	if draft.Status == domain.DraftCommitted || draft.Status == domain.DraftDiscarded {
		return domain.StagingDraft{}, domain.NewPipelineError("staging.patch", domain.ErrCommitConflict)
	}

	byID := make(map[string]ChunkEdit, len(edits))
	for _, e := range edits {
		byID[e.ChunkID] = e
	}
	for i, chunk := range draft.Chunks {
		edit, ok := byID[chunk.ChunkID]
		if !ok {
			continue
		}
		applyEdit(&draft.Chunks[i], edit)
	}
	draft.Status = domain.DraftReviewed

	if err := s.save(ctx, draft); err != nil {
		return domain.StagingDraft{}, err
	}
	return draft, nil
}

func applyEdit(chunk *domain.DraftChunk, edit ChunkEdit) {
	if edit.Category != "" {
		chunk.Pair.Metadata.Category = edit.Category
	}
	if edit.Intent != "" {
		chunk.Pair.Metadata.Intent = edit.Intent
	}
	if edit.Question != "" {
		chunk.Pair.Question = edit.Question
	}
	if edit.Answer != "" {
		chunk.Pair.Answer = edit.Answer
	}
	if edit.Discard {
		chunk.Discard = true
	}
}

// Discard marks a draft discarded without committing it.
func (s *Store) Discard(ctx context.Context, id string) error {
	draft, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	draft.Status = domain.DraftDiscarded
	return s.save(ctx, draft)
}

// Lock acquires the per-draft advisory lock used to serialize commit
// attempts, grounded on the same kv.Store.Lock primitive the session
// manager uses to serialize per-session turns.
func (s *Store) Lock(ctx context.Context, id string) (kv.Unlock, bool, error) {
	return s.kv.Lock(ctx, fmt.Sprintf("lock:draft:%s", id), lockTTL)
}

// Save persists draft as-is, used by the commit procedure to record
// assigned pair ids and the final committed/discarded status.
func (s *Store) Save(ctx context.Context, draft domain.StagingDraft) error {
	return s.save(ctx, draft)
}

func (s *Store) save(ctx context.Context, draft domain.StagingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("staging: encode %s: %w", draft.ID, err)
	}
	return s.kv.Set(ctx, draftKey(draft.ID), string(data), draft.TTL)
}
