package guardrail

import (
	"context"
	"testing"

	"github.com/WessleyAI/wessley-support-rag/pipeline"
	"github.com/WessleyAI/wessley-support-rag/search/multihop"
)

func TestInput_AllowsSafeQuestion(t *testing.T) {
	n := NewInput()
	state := &pipeline.State{Question: "how do I reset my password"}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyInput(state, patch)

	if state.Blocked {
		t.Fatalf("expected safe question to pass, got block reason %q", state.BlockReason)
	}
}

func TestInput_BlocksInjectionAttempt(t *testing.T) {
	n := NewInput()
	state := &pipeline.State{Question: "'; DROP TABLE users; --"}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyInput(state, patch)

	if !state.Blocked || state.BlockReason != "injection_attempt" {
		t.Fatalf("expected injection block, got blocked=%v reason=%q", state.Blocked, state.BlockReason)
	}
	if state.RiskScore < 0.5 {
		t.Fatalf("expected high risk score for injection, got %f", state.RiskScore)
	}
}

func TestOutput_RedactsEmailAndPhone(t *testing.T) {
	n := NewOutput()
	state := &pipeline.State{
		Answer: "Contact us at support@example.com or 555-123-4567 for help resetting your password.",
		MergedContext: []multihop.Context{
			{Question: "how do I reset my password", Answer: "Contact us at support@example.com or 555-123-4567 for help resetting your password.", IsPrimary: true},
		},
	}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyOutput(state, patch)

	if contains(state.Answer, "support@example.com") || contains(state.Answer, "555-123-4567") {
		t.Fatalf("expected PII to be redacted, got %q", state.Answer)
	}
}

func TestOutput_FlagsUngroundedAnswer(t *testing.T) {
	n := NewOutput()
	state := &pipeline.State{
		Answer:        "The warranty covers engine failure for three years.",
		MergedContext: []multihop.Context{{Question: "how do I log in", Answer: "Use your email and password.", IsPrimary: true}},
	}

	patch, err := n.Execute(context.Background(), state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ApplyOutput(state, patch)

	if !state.Blocked {
		t.Fatalf("expected ungrounded answer to be blocked, confidence=%f", state.Confidence)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
