// Package modelclient defines the capability interfaces the pipeline uses
// to reach embedding and chat models, independent of transport. Concrete
// adapters live in subpackages: grpcclient talks to an internal ml-worker
// over gRPC, ollama talks to a local Ollama HTTP server, and anthropic
// talks to the Anthropic Messages API.
package modelclient

import "context"

// EmbedClient turns text into a dense vector for hybrid search and intent
// classification.
type EmbedClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatMessage is one turn of a chat completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest is a generation call against the configured chat model.
type ChatRequest struct {
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatResponse is the model's completion plus basic usage accounting.
type ChatResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// ChatClient generates an answer grounded in the prompt assembled by the
// pipeline's generation node.
type ChatClient interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
