// Package domain defines the core data model of the support-RAG engine —
// QAPair, Document, Embedding, StagingDraft, Session, QueryRecord,
// CacheEntry, and the webhook types — plus the validation gate applied at
// pipeline entry points.
package domain

import "time"

// DocumentStatus is the lifecycle state of a Document.
type DocumentStatus string

const (
	DocumentActive   DocumentStatus = "active"
	DocumentArchived DocumentStatus = "archived"
)

// DraftStatus is the lifecycle state of a StagingDraft.
type DraftStatus string

const (
	DraftPending   DraftStatus = "pending"
	DraftReviewed  DraftStatus = "reviewed"
	DraftCommitted DraftStatus = "committed"
	DraftDiscarded DraftStatus = "discarded"
)

// DialogState is the conversation state machine used by session routing.
type DialogState string

const (
	DialogOpen       DialogState = "OPEN"
	DialogClarifying DialogState = "CLARIFYING"
	DialogAnswered   DialogState = "ANSWERED"
	DialogEscalated  DialogState = "ESCALATED"
	DialogClosed     DialogState = "CLOSED"
)

// Action is the terminal routing decision of the query pipeline.
type Action string

const (
	ActionAutoReply Action = "auto_reply"
	ActionClarify   Action = "clarify"
	ActionEscalate  Action = "escalate"
)

// MessageRole identifies the speaker of a session turn.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// QAMetadata carries the classification and provenance of a QAPair.
type QAMetadata struct {
	Category        string            `json:"category"`
	Intent          string            `json:"intent"`
	RequiresHandoff bool              `json:"requires_handoff"`
	Language        string            `json:"language"`
	Confidence      float64           `json:"confidence"`
	SourceDocument  string            `json:"source_document"`
	Tags            map[string]string `json:"tags,omitempty"`
	SeeAlso         []string          `json:"see_also,omitempty"`
}

// QAPair is the atomic unit of retrieval and generation grounding.
type QAPair struct {
	ID       string     `json:"id"`
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Metadata QAMetadata `json:"metadata"`
}

// Valid reports whether the pair has a non-empty question, answer, category,
// and intent, with confidence in [0,1].
func (p QAPair) Valid() error {
	if p.Question == "" {
		return NewValidationError("question", "", ErrEmptyField)
	}
	if p.Answer == "" {
		return NewValidationError("answer", "", ErrEmptyField)
	}
	if p.Metadata.Category == "" {
		return NewValidationError("category", "", ErrEmptyField)
	}
	if p.Metadata.Intent == "" {
		return NewValidationError("intent", "", ErrEmptyField)
	}
	if p.Metadata.Confidence < 0 || p.Metadata.Confidence > 1 {
		return NewValidationError("confidence", "", ErrConfidenceRange)
	}
	return nil
}

// Document groups an ordered set of QAPair ids under a title.
type Document struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	PairIDs   []string       `json:"pair_ids"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Version   int            `json:"version"`
}

// Embedding is the current vector attached to a QAPair.
type Embedding struct {
	PairID string    `json:"pair_id"`
	Vector []float32 `json:"vector"`
	Model  string    `json:"model"`
	Lang   string    `json:"lang"`
}

// ChunkMetadata carries per-chunk auto-classification confidence scores.
type ChunkMetadata struct {
	CategoryConfidence float64 `json:"category_confidence"`
	IntentConfidence   float64 `json:"intent_confidence"`
	HandoffConfidence  float64 `json:"handoff_confidence"`
}

// DraftChunk is a candidate QAPair held in a StagingDraft awaiting review.
type DraftChunk struct {
	ChunkID string        `json:"chunk_id"`
	Pair    QAPair        `json:"pair"`
	Meta    ChunkMetadata `json:"meta"`
	Discard bool          `json:"discard"`
}

// StagingDraft is a transient, human-reviewable bundle of candidate pairs.
// Drafts live in the k/v store only — never in the authoritative stores
// until Commit succeeds.
type StagingDraft struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	Chunks    []DraftChunk  `json:"chunks"`
	Status    DraftStatus   `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
}

// SessionMessage is one turn of a conversation.
type SessionMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	QueryID   string      `json:"query_id,omitempty"`
}

// LongTermMemory holds stable, explicitly-written per-user facts.
type LongTermMemory struct {
	LanguagePref string `json:"language_pref,omitempty"`
	Channel      string `json:"channel,omitempty"`
}

// Session is keyed by (UserID, SessionID) and carries bounded turn history.
type Session struct {
	UserID    string           `json:"user_id"`
	SessionID string           `json:"session_id"`
	History   []SessionMessage `json:"history"`
	State     DialogState      `json:"state"`
	Memory    LongTermMemory   `json:"memory"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SourceRef records one retrieved pair's contribution to an answer.
type SourceRef struct {
	PairID    string  `json:"pair_id"`
	Relevance float64 `json:"relevance"`
}

// NodeTrace records one node's execution outcome for telemetry.
type NodeTrace struct {
	Node     string        `json:"node"`
	Duration time.Duration `json:"duration"`
	Status   string        `json:"status"`
	Err      string        `json:"err,omitempty"`
}

// Telemetry is the per-query pipeline trace.
type Telemetry struct {
	Nodes    []NodeTrace `json:"nodes"`
	CacheHit bool        `json:"cache_hit"`
	HopsUsed int         `json:"hops_used"`
}

// QueryRecord is the immutable result of one query pipeline execution.
type QueryRecord struct {
	ID               string      `json:"id"`
	Question         string      `json:"question"`
	CacheKey         string      `json:"cache_key"`
	Answer           string      `json:"answer,omitempty"`
	Confidence       float64     `json:"confidence"`
	Sources          []SourceRef `json:"sources"`
	Action           Action      `json:"action"`
	EscalationReason string      `json:"escalation_reason,omitempty"`
	Telemetry        Telemetry   `json:"telemetry"`
	CreatedAt        time.Time   `json:"created_at"`
}

// CacheEntry is a stored answer for a normalized query key.
type CacheEntry struct {
	Key        string        `json:"key"`
	Query      string        `json:"query"`
	Answer     string        `json:"answer"`
	DocIDs     []string      `json:"doc_ids"`
	Confidence float64       `json:"confidence"`
	HitCount   int64         `json:"hit_count"`
	CreatedAt  time.Time     `json:"created_at"`
	TTL        time.Duration `json:"ttl"`
}

// IntentExample is one labelled utterance used to seed an intent exemplar.
type IntentExample struct {
	Utterance string    `json:"utterance"`
	Embedding []float32 `json:"embedding"`
}

// IntentDef is one intent within a category, with its exemplar embedding.
type IntentDef struct {
	Name     string          `json:"name"`
	Examples []IntentExample `json:"examples"`
	Exemplar []float32       `json:"exemplar"`
}

// CategoryDef owns a set of intents.
type CategoryDef struct {
	Name    string      `json:"name"`
	Intents []IntentDef `json:"intents"`
}

// IntentRegistrySnapshot is an immutable, atomically-swapped view of the
// committed-pair derived category/intent taxonomy.
type IntentRegistrySnapshot struct {
	Categories []CategoryDef `json:"categories"`
	BuiltAt    time.Time     `json:"built_at"`
}
