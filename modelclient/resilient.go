package modelclient

import (
	"context"

	"github.com/WessleyAI/wessley-support-rag/pkg/resilience"
)

// Resilient wraps an EmbedClient/ChatClient pair with a circuit breaker,
// tripping after repeated upstream failures so the pipeline fails fast
// instead of piling up timeouts against a degraded model provider.
type Resilient struct {
	embed   EmbedClient
	chat    ChatClient
	breaker *resilience.Breaker
}

// NewResilient wraps embed and chat behind a shared breaker; either may be
// nil if the underlying client only implements one capability.
func NewResilient(embed EmbedClient, chat ChatClient, opts resilience.BreakerOpts) *Resilient {
	return &Resilient{embed: embed, chat: chat, breaker: resilience.NewBreaker(opts)}
}

func (r *Resilient) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.embed.Embed(ctx, text)
		return innerErr
	})
	return out, err
}

func (r *Resilient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.embed.EmbedBatch(ctx, texts)
		return innerErr
	})
	return out, err
}

func (r *Resilient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var out ChatResponse
	err := r.breaker.Call(ctx, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.chat.Chat(ctx, req)
		return innerErr
	})
	return out, err
}
