// Package graph builds an Engine from an ordered list of pipeline nodes and
// runs them against a pipeline.State, honoring per-node failure policy and
// conditional branching (skip-ahead based on state, in the spirit of
// Tangerg-lynx's flow.BranchNode route selector).
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
)

// FailurePolicy decides what the Engine does when a node's Execute returns
// an error.
type FailurePolicy int

const (
	// Fatal aborts the run and returns the error.
	Fatal FailurePolicy = iota
	// Recover logs the error, records it in telemetry, and continues to
	// the next node with State unchanged by this node's patch.
	Recover
	// Bypass treats the node as a no-op entirely, not even recording an
	// error status, used for optional enrichment nodes.
	Bypass
)

// RouteSelector inspects State after a node runs and returns the name of
// the next node to jump to, or "" to fall through to the next node in
// sequence. It lets a single node (e.g. a cache lookup) short-circuit the
// rest of the graph.
type RouteSelector func(state *pipeline.State) (target string, jump bool)

// NodeConfig wires one node into the graph with its apply function, failure
// policy, and optional routing.
type NodeConfig struct {
	Node     pipeline.Node
	Apply    pipeline.ApplyFunc
	Policy   FailurePolicy
	Route    RouteSelector
	Disabled func(state *pipeline.State) bool
}

// Engine is a compiled, ordered sequence of nodes plus an index from node
// name to position, letting RouteSelectors jump by name.
type Engine struct {
	configs []NodeConfig
	index   map[string]int
	logger  *slog.Logger
	strict  bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// Strict turns on runtime contract enforcement: before a node runs, every
// one of its RequiredInputs must have actually been produced earlier on
// this execution path (not merely declared reachable at construction
// time), and after a node runs its Patch may contain only the fields its
// Contract declares, with every GuaranteedOutput present. A violation is
// reported as a domain.ErrContractViolation and handled according to the
// node's FailurePolicy like any other node error.
func Strict() Option {
	return func(e *Engine) { e.strict = true }
}

// New validates the contract chain (every RequiredInput must be a
// GuaranteedOutput of some earlier node) and compiles the Engine.
func New(logger *slog.Logger, configs []NodeConfig, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	index := make(map[string]int, len(configs))
	satisfied := make(map[string]bool)
	for i, c := range configs {
		name := c.Node.Name()
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("pipeline/graph: duplicate node name %q", name)
		}
		index[name] = i

		contract := c.Node.Contract()
		for _, req := range contract.RequiredInputs {
			if !satisfied[req] {
				return nil, fmt.Errorf("pipeline/graph: node %q requires %q, not guaranteed by any earlier node", name, req)
			}
		}
		for _, out := range contract.GuaranteedOutputs {
			satisfied[out] = true
		}
	}
	e := &Engine{configs: configs, index: index, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes the graph against state, mutating it in place and returning
// the first fatal error encountered, if any. Safe for concurrent use across
// distinct State values; a single *State must not be shared across calls.
func (e *Engine) Run(ctx context.Context, state *pipeline.State) error {
	tracer := otel.Tracer("pipeline/graph")
	ctx, span := tracer.Start(ctx, "graph.Run")
	defer span.End()

	// produced tracks which fields have actually been written on this run's
	// execution path, as opposed to the construction-time "satisfied" set in
	// New, which only proves a field is guaranteed by *some* node somewhere
	// in the list — routing can still skip that node on a given run.
	produced := make(map[string]bool)

	i := 0
	for i < len(e.configs) {
		cfg := e.configs[i]
		name := cfg.Node.Name()
		contract := cfg.Node.Contract()

		if cfg.Disabled != nil && cfg.Disabled(state) {
			i++
			continue
		}

		if e.strict {
			if missing := missingInputs(contract.RequiredInputs, produced); len(missing) > 0 {
				violation := pipeline.NewError(name, pipeline.KindContractViolation,
					fmt.Errorf("%w: required input(s) %v not produced on this run", domain.ErrContractViolation, missing))
				if aborted, rerr := e.applyFailurePolicy(ctx, state, cfg, name, 0, violation); aborted {
					return rerr
				}
				i++
				continue
			}
		}

		nodeCtx, nodeSpan := tracer.Start(ctx, "node."+name)
		start := time.Now()
		patch, err := cfg.Node.Execute(nodeCtx, state)
		elapsed := time.Since(start)
		nodeSpan.End()

		if err == nil && e.strict {
			err = validateOutputs(name, contract, patch)
		}

		if err != nil {
			if aborted, rerr := e.applyFailurePolicy(ctx, state, cfg, name, elapsed, err); aborted {
				return rerr
			}
			i++
			continue
		}

		if cfg.Apply != nil {
			cfg.Apply(state, patch)
		}
		state.RecordNode(name, elapsed, "ok", nil)
		markProduced(produced, contract, patch)

		if cfg.Route != nil {
			if target, jump := cfg.Route(state); jump {
				idx, ok := e.index[target]
				if !ok {
					return fmt.Errorf("pipeline/graph: node %q routed to unknown node %q", name, target)
				}
				i = idx
				continue
			}
		}
		i++
	}
	return nil
}

// applyFailurePolicy records and dispatches a node failure (including a
// contract violation raised before the node ever ran) per its configured
// FailurePolicy. aborted reports whether Run should stop and return rerr.
func (e *Engine) applyFailurePolicy(ctx context.Context, state *pipeline.State, cfg NodeConfig, name string, elapsed time.Duration, err error) (aborted bool, rerr error) {
	switch cfg.Policy {
	case Fatal:
		state.RecordNode(name, elapsed, "error", err)
		return true, fmt.Errorf("pipeline/graph: node %q: %w", name, err)
	case Recover:
		state.RecordNode(name, elapsed, "recovered", err)
		e.logger.WarnContext(ctx, "node failed, continuing", "node", name, "error", err)
	case Bypass:
		// swallow silently; this node is best-effort
	}
	return false, nil
}

// missingInputs returns the subset of required that produced has not yet
// recorded.
func missingInputs(required []string, produced map[string]bool) []string {
	var missing []string
	for _, r := range required {
		if !produced[r] {
			missing = append(missing, r)
		}
	}
	return missing
}

// markProduced records a node's declared guaranteed outputs and whatever
// keys its patch actually carried (covering conditional outputs) as
// available to later nodes' RequiredInputs checks.
func markProduced(produced map[string]bool, contract pipeline.Contract, patch pipeline.Patch) {
	for _, out := range contract.GuaranteedOutputs {
		produced[out] = true
	}
	for k := range patch {
		produced[k] = true
	}
}

// validateOutputs enforces a node's output contract: every key in patch
// must be declared as a guaranteed or conditional output, and every
// guaranteed output must actually be present.
func validateOutputs(name string, contract pipeline.Contract, patch pipeline.Patch) error {
	allowed := make(map[string]bool, len(contract.GuaranteedOutputs)+len(contract.ConditionalOutputs))
	for _, o := range contract.GuaranteedOutputs {
		allowed[o] = true
	}
	for _, o := range contract.ConditionalOutputs {
		allowed[o] = true
	}
	for k := range patch {
		if !allowed[k] {
			return pipeline.NewError(name, pipeline.KindContractViolation,
				fmt.Errorf("%w: unexpected output %q", domain.ErrContractViolation, k))
		}
	}
	for _, g := range contract.GuaranteedOutputs {
		if _, ok := patch[g]; !ok {
			return pipeline.NewError(name, pipeline.KindContractViolation,
				fmt.Errorf("%w: guaranteed output %q missing", domain.ErrContractViolation, g))
		}
	}
	return nil
}
