package relational

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Postgres implements Store on top of jmoiron/sqlx with the pgx stdlib
// driver, matching the teacher's preference for a generic repository layer
// over hand-rolled SQL builders.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres opens a pooled connection to dsn and verifies connectivity.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("relational: connect: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

type pairRow struct {
	ID              string  `db:"id"`
	Question        string  `db:"question"`
	Answer          string  `db:"answer"`
	Category        string  `db:"category"`
	Intent          string  `db:"intent"`
	RequiresHandoff bool    `db:"requires_handoff"`
	Language        string  `db:"language"`
	Confidence      float64 `db:"confidence"`
	SourceDocument  string  `db:"source_document"`
	Tags            []byte  `db:"tags"`
	SeeAlso         []byte  `db:"see_also"`
}

func toPairRow(p domain.QAPair) (pairRow, error) {
	tags, err := json.Marshal(p.Metadata.Tags)
	if err != nil {
		return pairRow{}, err
	}
	seeAlso, err := json.Marshal(p.Metadata.SeeAlso)
	if err != nil {
		return pairRow{}, err
	}
	return pairRow{
		ID: p.ID, Question: p.Question, Answer: p.Answer,
		Category: p.Metadata.Category, Intent: p.Metadata.Intent,
		RequiresHandoff: p.Metadata.RequiresHandoff, Language: p.Metadata.Language,
		Confidence: p.Metadata.Confidence, SourceDocument: p.Metadata.SourceDocument,
		Tags: tags, SeeAlso: seeAlso,
	}, nil
}

func fromPairRow(r pairRow) domain.QAPair {
	var tags map[string]string
	_ = json.Unmarshal(r.Tags, &tags)
	var seeAlso []string
	_ = json.Unmarshal(r.SeeAlso, &seeAlso)
	return domain.QAPair{
		ID: r.ID, Question: r.Question, Answer: r.Answer,
		Metadata: domain.QAMetadata{
			Category: r.Category, Intent: r.Intent, RequiresHandoff: r.RequiresHandoff,
			Language: r.Language, Confidence: r.Confidence, SourceDocument: r.SourceDocument,
			Tags: tags, SeeAlso: seeAlso,
		},
	}
}

// UpsertPair inserts or replaces a pair's row, the relational half of the
// ingestion commit procedure's step 2.
func (p *Postgres) UpsertPair(ctx context.Context, pair domain.QAPair) error {
	row, err := toPairRow(pair)
	if err != nil {
		return err
	}
	_, err = p.db.NamedExecContext(ctx, `
		INSERT INTO qa_pairs (id, question, answer, category, intent, requires_handoff, language, confidence, source_document, tags, see_also)
		VALUES (:id, :question, :answer, :category, :intent, :requires_handoff, :language, :confidence, :source_document, :tags, :see_also)
		ON CONFLICT (id) DO UPDATE SET
			question = EXCLUDED.question, answer = EXCLUDED.answer, category = EXCLUDED.category,
			intent = EXCLUDED.intent, requires_handoff = EXCLUDED.requires_handoff, language = EXCLUDED.language,
			confidence = EXCLUDED.confidence, source_document = EXCLUDED.source_document,
			tags = EXCLUDED.tags, see_also = EXCLUDED.see_also
	`, row)
	if err != nil {
		return fmt.Errorf("relational: upsert pair %s: %w", pair.ID, err)
	}
	return nil
}

// DeletePair removes a pair row, used by commit rollback.
func (p *Postgres) DeletePair(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM qa_pairs WHERE id = $1`, id)
	return err
}

func (p *Postgres) GetPair(ctx context.Context, id string) (domain.QAPair, error) {
	var row pairRow
	err := p.db.GetContext(ctx, &row, `SELECT * FROM qa_pairs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QAPair{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.QAPair{}, fmt.Errorf("relational: get pair %s: %w", id, err)
	}
	return fromPairRow(row), nil
}

func (p *Postgres) ListPairsByCategory(ctx context.Context, category string) ([]domain.QAPair, error) {
	var rows []pairRow
	err := p.db.SelectContext(ctx, &rows, `SELECT * FROM qa_pairs WHERE category = $1`, category)
	if err != nil {
		return nil, fmt.Errorf("relational: list pairs by category %s: %w", category, err)
	}
	out := make([]domain.QAPair, len(rows))
	for i, r := range rows {
		out[i] = fromPairRow(r)
	}
	return out, nil
}

// ListAllPairs feeds the intent registry rebuild and BM25 index build.
func (p *Postgres) ListAllPairs(ctx context.Context) ([]domain.QAPair, error) {
	var rows []pairRow
	if err := p.db.SelectContext(ctx, &rows, `SELECT * FROM qa_pairs`); err != nil {
		return nil, fmt.Errorf("relational: list all pairs: %w", err)
	}
	out := make([]domain.QAPair, len(rows))
	for i, r := range rows {
		out[i] = fromPairRow(r)
	}
	return out, nil
}

type documentRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	PairIDs   []byte `db:"pair_ids"`
	Status    string `db:"status"`
	Version   int    `db:"version"`
}

func (p *Postgres) UpsertDocument(ctx context.Context, d domain.Document) error {
	pairIDs, err := json.Marshal(d.PairIDs)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, pair_ids, status, version)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, pair_ids = EXCLUDED.pair_ids,
			status = EXCLUDED.status, version = EXCLUDED.version
	`, d.ID, d.Title, pairIDs, string(d.Status), d.Version)
	if err != nil {
		return fmt.Errorf("relational: upsert document %s: %w", d.ID, err)
	}
	return nil
}

func (p *Postgres) InsertQueryRecord(ctx context.Context, r domain.QueryRecord) error {
	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return err
	}
	telemetry, err := json.Marshal(r.Telemetry)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO query_records (id, question, cache_key, answer, confidence, sources, action, escalation_reason, telemetry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ID, r.Question, r.CacheKey, r.Answer, r.Confidence, sources, string(r.Action), r.EscalationReason, telemetry, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("relational: insert query record %s: %w", r.ID, err)
	}
	return nil
}

func (p *Postgres) CreateSubscription(ctx context.Context, s Subscription) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO webhook_subscriptions (id, url, secret, event_type, active)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.URL, s.Secret, s.EventType, s.Active)
	if err != nil {
		return fmt.Errorf("relational: create subscription %s: %w", s.ID, err)
	}
	return nil
}

func (p *Postgres) ListSubscriptions(ctx context.Context, eventType string) ([]Subscription, error) {
	var subs []Subscription
	err := p.db.SelectContext(ctx, &subs, `
		SELECT id, url, secret, event_type AS eventtype, active
		FROM webhook_subscriptions WHERE event_type = $1 AND active = true
	`, eventType)
	if err != nil {
		return nil, fmt.Errorf("relational: list subscriptions for %s: %w", eventType, err)
	}
	return subs, nil
}

func (p *Postgres) InsertDelivery(ctx context.Context, d Delivery) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO webhook_deliveries (id, subscription_id, event_id, event_type, payload, status, attempts, next_attempt_at, last_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, d.ID, d.SubscriptionID, d.EventID, d.EventType, d.Payload, string(d.Status), d.Attempts, d.NextAttemptAt, d.LastError)
	if err != nil {
		return fmt.Errorf("relational: insert delivery %s: %w", d.ID, err)
	}
	return nil
}

func (p *Postgres) UpdateDelivery(ctx context.Context, d Delivery) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE webhook_deliveries SET status = $2, attempts = $3, next_attempt_at = $4, last_error = $5
		WHERE id = $1
	`, d.ID, string(d.Status), d.Attempts, d.NextAttemptAt, d.LastError)
	if err != nil {
		return fmt.Errorf("relational: update delivery %s: %w", d.ID, err)
	}
	return nil
}

func (p *Postgres) ListPendingDeliveries(ctx context.Context, limit int) ([]Delivery, error) {
	var rows []struct {
		Delivery
		Status string `db:"status"`
	}
	err := p.db.SelectContext(ctx, &rows, `
		SELECT id, subscription_id, event_id, event_type, payload, status, attempts, next_attempt_at, last_error
		FROM webhook_deliveries
		WHERE status IN ('pending', 'retrying') AND next_attempt_at <= extract(epoch from now())
		ORDER BY next_attempt_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("relational: list pending deliveries: %w", err)
	}
	out := make([]Delivery, len(rows))
	for i, r := range rows {
		d := r.Delivery
		d.Status = DeliveryStatus(r.Status)
		out[i] = d
	}
	return out, nil
}

var _ Store = (*Postgres)(nil)
