package classify

import (
	"context"
	"strings"

	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

// handoffKeywords are explicit requests to reach a human, in English and
// Spanish. A match here skips the LLM tie-break entirely.
var handoffKeywords = []string{
	"talk to a human", "talk to an agent", "speak to a person", "speak with a representative",
	"real person", "human agent", "customer service rep", "escalate this",
	"hablar con un humano", "hablar con un agente", "hablar con una persona",
	"representante humano", "persona real", "quiero hablar con alguien",
}

// ambiguousLow is the lower edge of the confidence window [ambiguousLow,
// minCategoryConfidence): below the category-match floor but above pure
// noise, where the nearest exemplar is too close to call and an
// LLM tie-break decides whether the chunk needs a human instead of a
// taxonomy slot.
const ambiguousLow = 0.2

// detectHandoff checks explicit keyword requests first, and only falls back
// to an LLM call when the nearest-centroid match was ambiguous rather than
// simply absent — most chunks never reach the model call.
func (c *Classifier) detectHandoff(ctx context.Context, question string, catConfidence float64) (bool, error) {
	lower := strings.ToLower(question)
	for _, kw := range handoffKeywords {
		if strings.Contains(lower, kw) {
			return true, nil
		}
	}

	if catConfidence < ambiguousLow || catConfidence >= minCategoryConfidence {
		return false, nil
	}
	return c.llmTieBreak(ctx, question)
}

const tieBreakSystemPrompt = `You decide whether a support question can be answered from a knowledge base or needs a human agent. Reply with exactly one word: "handoff" or "answerable".`

// llmTieBreak asks the chat model to break a borderline classification,
// used sparingly since it costs a model call per chunk it triggers on.
func (c *Classifier) llmTieBreak(ctx context.Context, question string) (bool, error) {
	if c.chat == nil {
		return false, nil
	}
	resp, err := c.chat.Chat(ctx, modelclient.ChatRequest{
		System:      tieBreakSystemPrompt,
		Messages:    []modelclient.ChatMessage{{Role: "user", Content: question}},
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(resp.Text), "handoff"), nil
}
