package pipeline

import "context"

// Reducer declares how a Patch's value for a field combines with whatever
// is already in State. Most fields use Overwrite; a few accumulate.
type Reducer int

const (
	// Overwrite replaces the existing value unconditionally.
	Overwrite Reducer = iota
	// KeepLatest replaces the existing value only if the patch's value is
	// the non-zero one written most recently — used for fields that
	// several nodes may attempt to set but only the last writer should win.
	KeepLatest
	// MergeUniqueList appends new elements to an existing slice field,
	// skipping duplicates by a field-specific identity.
	MergeUniqueList
)

// Contract declares a node's data dependencies. The engine validates, at
// graph-construction time, that every RequiredInput is a GuaranteedOutput
// of some earlier node.
type Contract struct {
	RequiredInputs     []string
	OptionalInputs     []string
	GuaranteedOutputs  []string
	ConditionalOutputs []string
}

// Patch is the sparse set of field values a node produces. Keys are field
// names matching Contract.GuaranteedOutputs/ConditionalOutputs; Apply uses
// a node-specific function to fold the patch into State since Go lacks
// reflection-free generic field access.
type Patch map[string]any

// Node is a single unit of pipeline work: a pure function of State to a
// Patch, plus the contract the engine uses to validate wiring. Execution
// order is the order of the configured node list.
type Node interface {
	Name() string
	Contract() Contract
	Execute(ctx context.Context, state *State) (Patch, error)
}

// ApplyFunc folds a Patch into State. Each node supplies its own, since the
// field set a Patch may touch is known only to that node's author.
type ApplyFunc func(state *State, patch Patch)
