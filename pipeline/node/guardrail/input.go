// Package guardrail holds the input and output safety nodes: question
// validation before retrieval runs, and PII redaction plus groundedness
// checking before an answer is returned.
package guardrail

import (
	"context"
	"errors"
	"strings"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
)

// Input rejects unsafe or malformed questions before any retrieval work
// runs, using the same text checks the ingestion staging reviewer applies
// to drafted questions.
type Input struct{}

func NewInput() *Input { return &Input{} }

func (n *Input) Name() string { return "guardrail.input" }

func (n *Input) Contract() pipeline.Contract {
	return pipeline.Contract{
		GuaranteedOutputs:  []string{"normalized_question", "blocked"},
		ConditionalOutputs: []string{"block_reason", "risk_score", "answer", "confidence"},
	}
}

func (n *Input) Execute(_ context.Context, state *pipeline.State) (pipeline.Patch, error) {
	normalized := strings.TrimSpace(state.Question)
	patch := pipeline.Patch{
		"normalized_question": normalized,
		"blocked":             false,
	}

	if err := domain.ValidateQuestion(normalized); err != nil {
		patch["blocked"] = true
		patch["block_reason"] = classify(err)
		patch["risk_score"] = riskScore(err)
		patch["answer"] = "I can't help with that request. A member of our team will follow up with you."
		patch["confidence"] = 0.0
	}

	return patch, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrInjection):
		return "injection_attempt"
	case errors.Is(err, domain.ErrProfanity):
		return "profanity"
	case errors.Is(err, domain.ErrTextTooShort):
		return "question_too_short"
	case errors.Is(err, domain.ErrTextTooLong):
		return "question_too_long"
	default:
		return "invalid_question"
	}
}

func riskScore(err error) float64 {
	if errors.Is(err, domain.ErrInjection) {
		return 0.9
	}
	if errors.Is(err, domain.ErrProfanity) {
		return 0.4
	}
	return 0.1
}

// ApplyInput folds an Input node's Patch into State.
func ApplyInput(s *pipeline.State, p pipeline.Patch) {
	s.NormalizedQuestion = p["normalized_question"].(string)
	s.Blocked = p["blocked"].(bool)
	if reason, ok := p["block_reason"].(string); ok {
		s.BlockReason = reason
	}
	if score, ok := p["risk_score"].(float64); ok {
		s.RiskScore = score
	}
	if answer, ok := p["answer"].(string); ok {
		s.Answer = answer
	}
	if confidence, ok := p["confidence"].(float64); ok {
		s.Confidence = confidence
	}
}
