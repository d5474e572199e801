package dialog

import (
	"testing"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

func TestTransition_LowConfidenceGoesToClarifying(t *testing.T) {
	got := Transition(domain.DialogOpen, Signals{Confidence: 0.05})
	if got != domain.DialogClarifying {
		t.Fatalf("expected CLARIFYING, got %s", got)
	}
}

func TestTransition_HighConfidenceGoesToAnswered(t *testing.T) {
	got := Transition(domain.DialogOpen, Signals{Confidence: 0.8})
	if got != domain.DialogAnswered {
		t.Fatalf("expected ANSWERED, got %s", got)
	}
}

func TestTransition_HandoffAlwaysEscalates(t *testing.T) {
	got := Transition(domain.DialogOpen, Signals{Confidence: 0.9, RequiresHandoff: true})
	if got != domain.DialogEscalated {
		t.Fatalf("expected ESCALATED, got %s", got)
	}
}

func TestTransition_EscalatedIsSticky(t *testing.T) {
	got := Transition(domain.DialogEscalated, Signals{Confidence: 0.9})
	if got != domain.DialogEscalated {
		t.Fatalf("expected ESCALATED to remain sticky, got %s", got)
	}
}

func TestTransition_ClosedReopensOnNewMessage(t *testing.T) {
	got := Transition(domain.DialogClosed, Signals{Confidence: 0.9})
	if got != domain.DialogOpen {
		t.Fatalf("expected a new message to reopen a closed session, got %s", got)
	}
}

func TestTransition_LoopDetectionEscalates(t *testing.T) {
	got := Transition(domain.DialogOpen, Signals{Confidence: 0.9, LoopDetected: true})
	if got != domain.DialogEscalated {
		t.Fatalf("expected loop detection to escalate, got %s", got)
	}
}

func TestActionFor(t *testing.T) {
	cases := map[domain.DialogState]domain.Action{
		domain.DialogAnswered:   domain.ActionAutoReply,
		domain.DialogClarifying: domain.ActionClarify,
		domain.DialogEscalated:  domain.ActionEscalate,
	}
	for state, want := range cases {
		if got := ActionFor(state); got != want {
			t.Fatalf("ActionFor(%s) = %s, want %s", state, got, want)
		}
	}
}
