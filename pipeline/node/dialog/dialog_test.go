package dialog

import (
	"context"
	"testing"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
)

func TestRoute_LowConfidenceClarifies(t *testing.T) {
	n := NewRoute()
	state := &pipeline.State{Confidence: 0.05, DialogState: domain.DialogOpen}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyRoute(state, patch)

	if state.Action != domain.ActionClarify {
		t.Fatalf("expected clarify action, got %s", state.Action)
	}
}

func TestRoute_HandoffIntentEscalatesWithReason(t *testing.T) {
	n := NewRoute()
	state := &pipeline.State{
		Confidence:  0.9,
		DialogState: domain.DialogOpen,
		Reranked:    []pipeline.FusedDoc{{Intent: "handoff"}},
	}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyRoute(state, patch)

	if state.Action != domain.ActionEscalate {
		t.Fatalf("expected escalate action, got %s", state.Action)
	}
	if state.EscalationReason != "intent_requires_human_handoff" {
		t.Fatalf("unexpected escalation reason: %q", state.EscalationReason)
	}
}

func TestRoute_BlockedQuestionEscalatesWithBlockReason(t *testing.T) {
	n := NewRoute()
	state := &pipeline.State{Confidence: 0.9, DialogState: domain.DialogOpen, Blocked: true, BlockReason: "injection_attempt"}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyRoute(state, patch)

	if state.EscalationReason != "injection_attempt" {
		t.Fatalf("expected block reason to carry through as escalation reason, got %q", state.EscalationReason)
	}
}

func TestRoute_HighConfidenceAutoReplies(t *testing.T) {
	n := NewRoute()
	state := &pipeline.State{Confidence: 0.9, DialogState: domain.DialogOpen}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyRoute(state, patch)

	if state.Action != domain.ActionAutoReply {
		t.Fatalf("expected auto reply action, got %s", state.Action)
	}
}
