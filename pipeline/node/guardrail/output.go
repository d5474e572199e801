package guardrail

import (
	"context"
	"regexp"
	"strings"

	"github.com/WessleyAI/wessley-support-rag/pipeline"
	"github.com/WessleyAI/wessley-support-rag/search/multihop"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\b(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	vinPattern   = regexp.MustCompile(`\b[A-HJ-NPR-Z0-9]{17}\b`)
)

// MinGroundedOverlap is the minimum fraction of an answer's content tokens
// that must also appear in the merged retrieval context for the answer to
// be considered grounded rather than a hallucination.
const MinGroundedOverlap = 0.2

// Output redacts personally identifying text from a drafted answer and
// flags answers that are not grounded in the retrieved context.
type Output struct{}

func NewOutput() *Output { return &Output{} }

func (n *Output) Name() string { return "guardrail.output" }

func (n *Output) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:     []string{"answer", "merged_context"},
		GuaranteedOutputs:  []string{"answer", "confidence"},
		ConditionalOutputs: []string{"blocked", "block_reason"},
	}
}

func (n *Output) Execute(_ context.Context, state *pipeline.State) (pipeline.Patch, error) {
	redacted := redactPII(state.Answer)
	confidence := groundedness(redacted, state.MergedContext)

	patch := pipeline.Patch{
		"answer":     redacted,
		"confidence": confidence,
	}
	if confidence < MinGroundedOverlap {
		patch["blocked"] = true
		patch["block_reason"] = "ungrounded_answer"
	}
	return patch, nil
}

func redactPII(text string) string {
	text = emailPattern.ReplaceAllString(text, "[redacted-email]")
	text = phonePattern.ReplaceAllString(text, "[redacted-phone]")
	text = ssnPattern.ReplaceAllString(text, "[redacted-ssn]")
	text = vinPattern.ReplaceAllString(text, "[redacted-vin]")
	return text
}

// groundedness returns the fraction of the answer's distinct lowercase
// tokens that also appear somewhere in the merged context, used as a cheap
// proxy confidence score in the absence of a dedicated entailment model.
func groundedness(answer string, context []multihop.Context) float64 {
	contextTokens := make(map[string]bool)
	for _, c := range context {
		for _, t := range strings.Fields(strings.ToLower(c.Question + " " + c.Answer)) {
			contextTokens[strings.Trim(t, ".,!?;:")] = true
		}
	}
	if len(contextTokens) == 0 {
		return 0
	}

	answerTokens := strings.Fields(strings.ToLower(answer))
	if len(answerTokens) == 0 {
		return 0
	}

	seen := make(map[string]bool)
	var matched, total int
	for _, t := range answerTokens {
		t = strings.Trim(t, ".,!?;:")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		total++
		if contextTokens[t] {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// ApplyOutput folds an Output node's Patch into State.
func ApplyOutput(s *pipeline.State, p pipeline.Patch) {
	s.Answer = p["answer"].(string)
	s.Confidence = p["confidence"].(float64)
	if blocked, ok := p["blocked"].(bool); ok {
		s.Blocked = blocked
	}
	if reason, ok := p["block_reason"].(string); ok {
		s.BlockReason = reason
	}
}
