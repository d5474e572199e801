package pipeline

import "fmt"

// Kind classifies a pipeline error for metrics labeling and failure-policy
// dispatch in the graph engine.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindContractViolation Kind = "contract_violation"
	KindUpstream          Kind = "upstream"
	KindTimeout           Kind = "timeout"
	KindGuardrailBlock    Kind = "guardrail_block"
	KindCommitConflict    Kind = "commit_conflict"
	KindNotFound          Kind = "not_found"
	KindAlreadyExists     Kind = "already_exists"
)

// Error wraps a node failure with the Kind the engine needs to decide
// whether to treat it as fatal, recoverable, or bypassable.
type Error struct {
	Node    string
	Kind    Kind
	Wrapped error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline: node %q: %s: %v", e.Node, e.Kind, e.Wrapped)
}

func (e *Error) Unwrap() error { return e.Wrapped }

func NewError(node string, kind Kind, wrapped error) *Error {
	return &Error{Node: node, Kind: kind, Wrapped: wrapped}
}
