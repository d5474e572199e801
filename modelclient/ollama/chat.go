package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/WessleyAI/wessley-support-rag/modelclient"
)

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Model    string    `json:"model"`
	Messages []chatMsg `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type chatResp struct {
	Message chatMsg `json:"message"`
}

// Chat satisfies modelclient.ChatClient.
func (c *Client) Chat(ctx context.Context, req modelclient.ChatRequest) (modelclient.ChatResponse, error) {
	msgs := make([]chatMsg, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, chatMsg{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatMsg{Role: m.Role, Content: m.Content})
	}

	payload := chatReq{Model: c.chatModel, Messages: msgs, Stream: false}
	payload.Options.Temperature = req.Temperature

	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return modelclient.ChatResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return modelclient.ChatResponse{}, fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return modelclient.ChatResponse{}, fmt.Errorf("ollama chat: status %d", resp.StatusCode)
	}

	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return modelclient.ChatResponse{}, fmt.Errorf("ollama chat decode: %w", err)
	}

	return modelclient.ChatResponse{Text: out.Message.Content}, nil
}

var _ modelclient.ChatClient = (*Client)(nil)
