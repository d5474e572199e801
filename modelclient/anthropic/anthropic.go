// Package anthropic implements modelclient.ChatClient against the Anthropic
// Messages API, for deployments that prefer a hosted model over the
// internal ml-worker.
package anthropic

import (
	"context"
	"fmt"

	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client adapts the Anthropic SDK to modelclient.ChatClient.
type Client struct {
	sdk   anthropic.Client
	model anthropic.Model
}

// New creates a Client using the given API key and model.
func New(apiKey string, model anthropic.Model) *Client {
	return &Client{
		sdk:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		model: model,
	}
}

// Chat satisfies modelclient.ChatClient.
func (c *Client) Chat(ctx context.Context, req modelclient.ChatRequest) (modelclient.ChatResponse, error) {
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case "assistant":
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	resp, err := c.sdk.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages:    msgs,
		Temperature: anthropic.Float(req.Temperature),
	})
	if err != nil {
		return modelclient.ChatResponse{}, fmt.Errorf("anthropic: chat: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return modelclient.ChatResponse{
		Text:         text,
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}

var _ modelclient.ChatClient = (*Client)(nil)
