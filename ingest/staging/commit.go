package staging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/ingest/registry"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/WessleyAI/wessley-support-rag/pkg/natsutil"
	graphstore "github.com/WessleyAI/wessley-support-rag/store/graph"
	"github.com/WessleyAI/wessley-support-rag/store/relational"
	"github.com/WessleyAI/wessley-support-rag/store/vector"
)

const postCommitTTL = 24 * time.Hour

// documentIngestedSubject is published once per source document after a
// successful commit.
const documentIngestedSubject = "document.ingested"

// DocumentIngestedEvent is the payload of documentIngestedSubject.
type DocumentIngestedEvent struct {
	DocumentID string   `json:"document_id"`
	Filename   string   `json:"filename"`
	PairIDs    []string `json:"pair_ids"`
}

// Result reports the outcome of one commit attempt.
type Result struct {
	DraftID        string
	CommittedCount int
	Failures       []string
}

// Committer runs the ordered, recoverable commit procedure over a reviewed
// draft: assign ids, insert relational rows, write vector embeddings,
// refresh the intent taxonomy, emit an event, and mark the draft committed.
type Committer struct {
	drafts     *Store
	relational relational.Store
	vector     vector.Store
	graph      graphstore.Store
	registry   *registry.Holder
	embed      modelclient.EmbedClient
	nc         *nats.Conn
	vectorDims int
}

// NewCommitter wires a Committer against the authoritative stores.
func NewCommitter(drafts *Store, rel relational.Store, vec vector.Store, graph graphstore.Store, reg *registry.Holder, embed modelclient.EmbedClient, nc *nats.Conn, vectorDims int) *Committer {
	return &Committer{drafts: drafts, relational: rel, vector: vec, graph: graph, registry: reg, embed: embed, nc: nc, vectorDims: vectorDims}
}

// Commit runs the full procedure for draftID under the draft's advisory
// lock. Calling Commit again on an already-committed draft is a no-op that
// returns the prior result, satisfying step 6's idempotency requirement.
func (c *Committer) Commit(ctx context.Context, draftID string) (Result, error) {
	unlock, ok, err := c.drafts.Lock(ctx, draftID)
	if err != nil {
		return Result{}, fmt.Errorf("commit: acquire lock: %w", err)
	}
	if !ok {
		return Result{}, domain.NewPipelineError("staging.commit", domain.ErrCommitConflict)
	}
	defer unlock(ctx)

	draft, err := c.drafts.Get(ctx, draftID)
	if err != nil {
		return Result{}, err
	}
	if draft.Status == domain.DraftCommitted {
		return countCommitted(draft), nil
	}
	if draft.Status == domain.DraftDiscarded {
		return Result{}, domain.NewPipelineError("staging.commit", domain.ErrCommitConflict)
	}

	pairs, failures := assignPairIDs(draft.Chunks)

	inserted, err := c.insertPairs(ctx, pairs)
	if err != nil {
		return Result{}, fmt.Errorf("commit: insert pairs: %w", err)
	}

	if err := c.writeEmbeddings(ctx, pairs); err != nil {
		c.rollbackPairs(ctx, inserted)
		return Result{}, fmt.Errorf("commit: write embeddings: %w", err)
	}

	if err := c.refreshRegistry(ctx); err != nil {
		return Result{}, fmt.Errorf("commit: refresh registry: %w", err)
	}

	if err := c.emitDocumentIngested(ctx, draft, pairs); err != nil {
		return Result{}, fmt.Errorf("commit: emit event: %w", err)
	}

	draft.Status = domain.DraftCommitted
	draft.TTL = postCommitTTL
	if err := c.drafts.Save(ctx, draft); err != nil {
		return Result{}, fmt.Errorf("commit: save committed draft: %w", err)
	}

	return Result{DraftID: draftID, CommittedCount: len(pairs), Failures: failures}, nil
}

// assignPairIDs assigns stable ids to non-discarded, valid chunks. Invalid
// or discarded chunks are excluded and reported as failures rather than
// aborting the whole commit.
func assignPairIDs(chunks []domain.DraftChunk) ([]domain.QAPair, []string) {
	var pairs []domain.QAPair
	var failures []string
	for i := range chunks {
		chunk := &chunks[i]
		if chunk.Discard {
			continue
		}
		if chunk.Pair.ID == "" {
			chunk.Pair.ID = uuid.NewString()
		}
		if err := chunk.Pair.Valid(); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", chunk.ChunkID, err))
			continue
		}
		pairs = append(pairs, chunk.Pair)
	}
	return pairs, failures
}

func (c *Committer) insertPairs(ctx context.Context, pairs []domain.QAPair) ([]string, error) {
	inserted := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if err := c.relational.UpsertPair(ctx, p); err != nil {
			c.rollbackPairs(ctx, inserted)
			return nil, err
		}
		inserted = append(inserted, p.ID)
	}
	return inserted, nil
}

// writeEmbeddings embeds every committed pair's question and upserts it
// into the vector store. Compensation on failure is the caller's
// responsibility since only the relational insert needs rolling back here.
func (c *Committer) writeEmbeddings(ctx context.Context, pairs []domain.QAPair) error {
	if len(pairs) == 0 {
		return nil
	}
	questions := make([]string, len(pairs))
	for i, p := range pairs {
		questions[i] = p.Question
	}
	embeddings, err := c.embed.EmbedBatch(ctx, questions)
	if err != nil {
		return err
	}
	if c.vectorDims > 0 {
		if err := c.vector.EnsureCollection(ctx, c.vectorDims); err != nil {
			return err
		}
	}
	records := make([]vector.Record, len(pairs))
	for i, p := range pairs {
		records[i] = vector.Record{
			ID:     p.ID,
			Vector: embeddings[i],
			Payload: map[string]any{
				"kind":     "pair",
				"pair_id":  p.ID,
				"category": p.Metadata.Category,
				"intent":   p.Metadata.Intent,
			},
		}
	}
	return c.vector.Upsert(ctx, records)
}

// rollbackPairs compensates a partially-inserted batch by deleting every
// pair already written to the relational and vector stores. Deletes are
// best-effort; a failure here is not itself fatal since the commit has
// already failed and will be retried from a clean draft state.
func (c *Committer) rollbackPairs(ctx context.Context, ids []string) {
	for _, id := range ids {
		_ = c.relational.DeletePair(ctx, id)
		_ = c.vector.DeleteByPairID(ctx, id)
	}
}

// Bootstrap rebuilds and publishes the taxonomy registry from whatever
// pairs are already committed, for callers that need a populated Registry
// before the first new commit runs (typically cmd/api at startup).
func (c *Committer) Bootstrap(ctx context.Context) error {
	return c.refreshRegistry(ctx)
}

// refreshRegistry rebuilds the taxonomy snapshot from every currently
// committed pair, grouping by category then intent and re-embedding each
// pair's question to compute a fresh per-intent exemplar. It also persists
// the taxonomy as nodes/edges in the graph store, together with one node
// per pair and its "see also" edges, the multi-hop resolver's read path.
func (c *Committer) refreshRegistry(ctx context.Context) error {
	all, err := c.relational.ListAllPairs(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	questions := make([]string, len(all))
	for i, p := range all {
		questions[i] = p.Question
	}
	embeddings, err := c.embed.EmbedBatch(ctx, questions)
	if err != nil {
		return err
	}

	type intentKey struct{ category, intent string }
	examples := make(map[intentKey][]domain.IntentExample)
	for i, p := range all {
		key := intentKey{p.Metadata.Category, p.Metadata.Intent}
		examples[key] = append(examples[key], domain.IntentExample{Utterance: p.Question, Embedding: embeddings[i]})
	}

	categories := make(map[string][]domain.IntentDef)
	for key, exs := range examples {
		categories[key.category] = append(categories[key.category], domain.IntentDef{
			Name:     key.intent,
			Examples: exs,
			Exemplar: meanEmbedding(exs),
		})
	}

	var snapshot domain.IntentRegistrySnapshot
	var nodes []graphstore.Node
	var edges []graphstore.Edge
	for name, intents := range categories {
		snapshot.Categories = append(snapshot.Categories, domain.CategoryDef{Name: name, Intents: intents})
		nodes = append(nodes, graphstore.Node{ID: "category:" + name, Kind: "category", Name: name})
		for _, in := range intents {
			intentID := fmt.Sprintf("intent:%s:%s", name, in.Name)
			nodes = append(nodes, graphstore.Node{ID: intentID, Kind: "intent", Name: in.Name, Category: name})
			edges = append(edges, graphstore.Edge{ID: "member:" + intentID, From: "category:" + name, To: intentID, Type: "has_intent"})
		}
	}
	for _, p := range all {
		nodes = append(nodes, graphstore.Node{ID: p.ID, Kind: "pair", Name: p.Question, Category: p.Metadata.Category})
		for _, other := range p.Metadata.SeeAlso {
			edges = append(edges, graphstore.Edge{ID: "see_also:" + p.ID + ":" + other, From: p.ID, To: other, Type: "see_also"})
		}
	}
	snapshot.BuiltAt = time.Now()

	if err := c.graph.SaveBatch(ctx, nodes, edges); err != nil {
		return err
	}
	c.registry.Swap(snapshot)
	return nil
}

func meanEmbedding(examples []domain.IntentExample) []float32 {
	if len(examples) == 0 {
		return nil
	}
	dims := len(examples[0].Embedding)
	sums := make([]float64, dims)
	for _, ex := range examples {
		for i := 0; i < dims && i < len(ex.Embedding); i++ {
			sums[i] += float64(ex.Embedding[i])
		}
	}
	mean := make([]float32, dims)
	for i, s := range sums {
		mean[i] = float32(s / float64(len(examples)))
	}
	return mean
}

func (c *Committer) emitDocumentIngested(ctx context.Context, draft domain.StagingDraft, pairs []domain.QAPair) error {
	if c.nc == nil {
		return nil
	}
	ids := make([]string, len(pairs))
	for i, p := range pairs {
		ids[i] = p.ID
	}
	doc := domain.Document{
		ID:        uuid.NewString(),
		Title:     draft.Filename,
		PairIDs:   ids,
		Status:    domain.DocumentActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Version:   1,
	}
	if err := c.relational.UpsertDocument(ctx, doc); err != nil {
		return err
	}
	return natsutil.Publish(ctx, c.nc, documentIngestedSubject, DocumentIngestedEvent{
		DocumentID: doc.ID,
		Filename:   draft.Filename,
		PairIDs:    ids,
	})
}

func countCommitted(draft domain.StagingDraft) Result {
	pairs, failures := assignPairIDs(draft.Chunks)
	return Result{DraftID: draft.ID, CommittedCount: len(pairs), Failures: failures}
}
