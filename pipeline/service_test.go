package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

type fakeRunner struct {
	mutate func(*State)
	err    error
}

func (f *fakeRunner) Run(_ context.Context, state *State) error {
	if f.mutate != nil {
		f.mutate(state)
	}
	return f.err
}

func TestService_AskShapesAnswerFromState(t *testing.T) {
	runner := &fakeRunner{mutate: func(s *State) {
		s.Answer = "use the reset link"
		s.Action = domain.ActionAutoReply
		s.Confidence = 0.8
	}}
	svc := NewService(runner, nil)

	answer, _, err := svc.Ask(context.Background(), "u1", "s1", "how do I reset my password", "en", domain.DialogOpen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Answer != "use the reset link" || answer.Action != domain.ActionAutoReply {
		t.Fatalf("unexpected answer: %+v", answer)
	}
}

func TestService_AskPropagatesEngineError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	svc := NewService(runner, nil)

	if _, _, err := svc.Ask(context.Background(), "u1", "s1", "q", "en", domain.DialogOpen); err == nil {
		t.Fatal("expected engine error to propagate")
	}
}
