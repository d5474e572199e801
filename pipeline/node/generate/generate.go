// Package generate holds the node that drafts an answer (or a clarifying
// question, or an escalation summary) from the merged retrieval context.
package generate

import (
	"context"
	"fmt"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/WessleyAI/wessley-support-rag/pipeline"
)

const (
	defaultMaxTokens   = 512
	defaultTemperature = 0.2
)

// fallbackAnswer is drafted when the chat model call itself fails, so the
// node still satisfies its GuaranteedOutputs contract and the output
// guardrail's groundedness check (naturally near zero for this text) routes
// the turn to escalation instead of the graph aborting outright.
const fallbackAnswer = "I wasn't able to put together an answer just now. Let me get a member of the team to help."

// Answer drafts a response with the configured chat model, selecting the
// system prompt by the dialog mode the earlier retrieval step implies.
type Answer struct {
	chat modelclient.ChatClient
	mode func(state *pipeline.State) string
}

func NewAnswer(chat modelclient.ChatClient) *Answer {
	return &Answer{chat: chat, mode: defaultMode}
}

func (n *Answer) Name() string { return "generate.answer" }

func (n *Answer) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:    []string{"merged_context", "normalized_question"},
		GuaranteedOutputs: []string{"answer"},
	}
}

func (n *Answer) Execute(ctx context.Context, state *pipeline.State) (pipeline.Patch, error) {
	pairs := make([]modelclient.ContextPair, 0, len(state.MergedContext))
	for _, c := range state.MergedContext {
		pairs = append(pairs, modelclient.ContextPair{Question: c.Question, Answer: c.Answer})
	}

	language := state.Language
	if language == "" {
		language = "en"
	}
	mode := n.mode(state)
	system := modelclient.SystemPrompt(language, mode)
	contextBlock := modelclient.BuildContextBlock(pairs)

	resp, err := n.chat.Chat(ctx, modelclient.ChatRequest{
		System: system,
		Messages: []modelclient.ChatMessage{
			{Role: "user", Content: fmt.Sprintf("Context:\n%s\nQuestion: %s", contextBlock, state.NormalizedQuestion)},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return pipeline.Patch{"answer": fallbackAnswer}, nil
	}

	return pipeline.Patch{"answer": resp.Text}, nil
}

// defaultMode drafts a plain answer unless the retrieved pair is flagged
// for handoff, in which case it drafts an escalation summary instead.
func defaultMode(state *pipeline.State) string {
	if len(state.Reranked) > 0 && state.Reranked[0].Intent == "handoff" {
		return modelclient.ModeEscalate
	}
	return modelclient.ModeAnswer
}

// ApplyAnswer folds an Answer node's Patch into State.
func ApplyAnswer(s *pipeline.State, p pipeline.Patch) {
	s.Answer = p["answer"].(string)
}

// Sources derives the SourceRef list the API surfaces alongside an answer,
// from whatever context survived the token-budget merge.
type Sources struct{}

func NewSources() *Sources { return &Sources{} }

func (n *Sources) Name() string { return "generate.sources" }

func (n *Sources) Contract() pipeline.Contract {
	return pipeline.Contract{
		RequiredInputs:    []string{"merged_context"},
		GuaranteedOutputs: []string{"sources"},
	}
}

func (n *Sources) Execute(_ context.Context, state *pipeline.State) (pipeline.Patch, error) {
	refs := make([]domain.SourceRef, 0, len(state.MergedContext))
	for _, c := range state.MergedContext {
		refs = append(refs, domain.SourceRef{PairID: c.PairID, Relevance: c.Relevance})
	}
	return pipeline.Patch{"sources": refs}, nil
}

// ApplySources folds a Sources node's Patch into State.
func ApplySources(s *pipeline.State, p pipeline.Patch) {
	s.Sources = p["sources"].([]domain.SourceRef)
}
