// Package ollama implements modelclient.EmbedClient and modelclient.ChatClient
// against a local Ollama server's HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

// Client is an Ollama-backed embedding and chat client.
type Client struct {
	baseURL   string
	embedModel string
	chatModel  string
	http       *http.Client
}

// New creates an Ollama client against baseURL (e.g. http://localhost:11434).
func New(baseURL, embedModel, chatModel string) *Client {
	return &Client{
		baseURL:    baseURL,
		embedModel: embedModel,
		chatModel:  chatModel,
		http:       &http.Client{},
	}
}

type embedReq struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResp struct {
	Embedding []float64 `json:"embedding"`
}

// Embed satisfies modelclient.EmbedClient.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, _ := json.Marshal(embedReq{Model: c.embedModel, Prompt: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embed: status %d", resp.StatusCode)
	}

	var result embedResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}

	out := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}

// EmbedBatch satisfies modelclient.EmbedClient. Ollama has no native batch
// endpoint, so this issues one request per text.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vals, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d]: %w", i, err)
		}
		out[i] = vals
	}
	return out, nil
}

var _ modelclient.EmbedClient = (*Client)(nil)
