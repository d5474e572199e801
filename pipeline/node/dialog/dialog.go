// Package dialog holds the pipeline node that maps this turn's guardrail
// and retrieval signals onto a dialog state transition and terminal action.
package dialog

import (
	"context"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
	sessiondialog "github.com/WessleyAI/wessley-support-rag/session/dialog"
)

// Route computes the DialogState transition and resulting Action from the
// turn's blocked/confidence/handoff signals.
type Route struct{}

func NewRoute() *Route { return &Route{} }

func (n *Route) Name() string { return "dialog.route" }

func (n *Route) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:     []string{"confidence"},
		OptionalInputs:     []string{"reranked"},
		GuaranteedOutputs:  []string{"dialog_state", "action"},
		ConditionalOutputs: []string{"escalation_reason"},
	}
}

func (n *Route) Execute(_ context.Context, state *pipeline.State) (pipeline.Patch, error) {
	requiresHandoff := false
	if len(state.Reranked) > 0 {
		requiresHandoff = state.Reranked[0].Intent == "handoff"
	}

	signals := sessiondialog.Signals{
		Confidence:      state.Confidence,
		RequiresHandoff: requiresHandoff,
		Blocked:         state.Blocked,
	}

	next := sessiondialog.Transition(state.DialogState, signals)
	action := sessiondialog.ActionFor(next)

	patch := pipeline.Patch{
		"dialog_state": next,
		"action":       action,
	}
	if next == domain.DialogEscalated {
		patch["escalation_reason"] = escalationReason(state, requiresHandoff)
	}
	return patch, nil
}

func escalationReason(state *pipeline.State, requiresHandoff bool) string {
	switch {
	case state.Blocked:
		return state.BlockReason
	case requiresHandoff:
		return "intent_requires_human_handoff"
	default:
		return "low_confidence_answer"
	}
}

// ApplyRoute folds a Route node's Patch into State.
func ApplyRoute(s *pipeline.State, p pipeline.Patch) {
	s.DialogState = p["dialog_state"].(domain.DialogState)
	s.Action = p["action"].(domain.Action)
	if reason, ok := p["escalation_reason"].(string); ok {
		s.EscalationReason = reason
	}
}
