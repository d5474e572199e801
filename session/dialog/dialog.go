// Package dialog implements the conversation state machine a session moves
// through across turns: OPEN, CLARIFYING, ANSWERED, ESCALATED, CLOSED.
package dialog

import "github.com/WessleyAI/wessley-support-rag/engine/domain"

// Signals summarizes what the current turn's pipeline run produced, the
// input the Transition function needs to pick the next DialogState.
type Signals struct {
	Confidence      float64
	RequiresHandoff bool
	Blocked         bool
	LoopDetected    bool
	UserClosed      bool
}

// minConfidence is the groundedness threshold below which a turn is treated
// as ambiguous rather than answerable, mirroring the output guardrail's
// grounding check.
const minConfidence = 0.2

// Transition computes the next DialogState from the current state and this
// turn's signals. It is a pure function so the session store and the
// pipeline's dialog node can both reason about it without side effects.
func Transition(current domain.DialogState, signals Signals) domain.DialogState {
	if signals.UserClosed {
		return domain.DialogClosed
	}
	if current == domain.DialogEscalated {
		return domain.DialogEscalated
	}
	if current == domain.DialogClosed {
		return domain.DialogOpen
	}

	switch {
	case signals.Blocked, signals.RequiresHandoff, signals.LoopDetected:
		return domain.DialogEscalated
	case signals.Confidence < minConfidence:
		return domain.DialogClarifying
	default:
		return domain.DialogAnswered
	}
}

// ActionFor maps a DialogState to the pipeline's terminal Action.
func ActionFor(state domain.DialogState) domain.Action {
	switch state {
	case domain.DialogEscalated:
		return domain.ActionEscalate
	case domain.DialogClarifying:
		return domain.ActionClarify
	default:
		return domain.ActionAutoReply
	}
}
