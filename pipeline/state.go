// Package pipeline implements the query-answering DAG: a sequence of
// contract-bound nodes threading a typed State record, with guardrails,
// caching, hybrid retrieval, multi-hop resolution, dialog routing, and
// generation.
package pipeline

import (
	"time"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/search/multihop"
)

// State is the shared record threaded through every node. Fields are typed,
// not a map, so a node's Contract can be checked against concrete field
// names at graph-construction time.
type State struct {
	// Input
	UserID    string
	SessionID string
	Question  string
	Language  string

	// Guardrail
	NormalizedQuestion string
	Blocked            bool
	BlockReason        string
	RiskScore          float64

	// Cache
	CacheKey string
	CacheHit bool
	Answer   string

	// Retrieval
	Category        string
	Intent          string
	RequiresHandoff bool
	Fused           []FusedDoc
	Reranked        []FusedDoc
	ComplexityScore float64
	HopsUsed        int
	MergedContext   []multihop.Context

	// Dialog
	DialogState domain.DialogState
	Action      domain.Action

	// Output
	EscalationReason string
	Confidence       float64
	Sources          []domain.SourceRef

	// Telemetry
	Telemetry domain.Telemetry
}

// FusedDoc is one retrieved pair carried through fusion, rerank, and
// multi-hop expansion.
type FusedDoc struct {
	PairID   string
	Question string
	Answer   string
	Category string
	Intent   string
	Score    float64
}

// RecordNode appends a node's trace to Telemetry, called by the engine after
// each Execute.
func (s *State) RecordNode(name string, d time.Duration, status string, err error) {
	trace := domain.NodeTrace{Node: name, Duration: d, Status: status}
	if err != nil {
		trace.Err = err.Error()
	}
	s.Telemetry.Nodes = append(s.Telemetry.Nodes, trace)
}
