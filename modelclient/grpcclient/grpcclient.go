// Package grpcclient implements modelclient.EmbedClient and
// modelclient.ChatClient against an internal ml-worker service reached over
// gRPC, the transport the teacher used for the same role.
package grpcclient

import (
	"context"
	"fmt"

	"github.com/WessleyAI/wessley-support-rag/modelclient"
	pb "github.com/WessleyAI/wessley-support-rag/modelclient/grpcclient/mlv1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client wraps a single gRPC connection shared by embedding and chat calls,
// and by the reranker's cross-encoder adapter.
type Client struct {
	conn  *grpc.ClientConn
	embed pb.EmbedServiceClient
	chat  pb.ChatServiceClient
}

// Dial connects to an ml-worker instance at addr.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpcclient: dial %s: %w", addr, err)
	}
	return &Client{
		conn:  conn,
		embed: pb.NewEmbedServiceClient(conn),
		chat:  pb.NewChatServiceClient(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// Conn exposes the raw connection so the reranker's cross-encoder adapter
// can share it instead of dialing a second time.
func (c *Client) Conn() *grpc.ClientConn { return c.conn }

// Embed satisfies modelclient.EmbedClient.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embed.Embed(ctx, &pb.EmbedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("grpcclient: embed: %w", err)
	}
	return resp.GetValues(), nil
}

// EmbedBatch satisfies modelclient.EmbedClient.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.embed.EmbedBatch(ctx, &pb.EmbedBatchRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("grpcclient: embed batch: %w", err)
	}
	out := make([][]float32, len(resp.GetEmbeddings()))
	for i, e := range resp.GetEmbeddings() {
		out[i] = e.GetValues()
	}
	return out, nil
}

// Chat satisfies modelclient.ChatClient.
func (c *Client) Chat(ctx context.Context, req modelclient.ChatRequest) (modelclient.ChatResponse, error) {
	msgs := make([]*pb.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = &pb.ChatMessage{Role: m.Role, Content: m.Content}
	}
	resp, err := c.chat.Chat(ctx, &pb.ChatRequest{
		System:      req.System,
		Messages:    msgs,
		MaxTokens:   int32(req.MaxTokens),
		Temperature: req.Temperature,
	})
	if err != nil {
		return modelclient.ChatResponse{}, fmt.Errorf("grpcclient: chat: %w", err)
	}
	return modelclient.ChatResponse{
		Text:         resp.GetText(),
		InputTokens:  int(resp.GetInputTokens()),
		OutputTokens: int(resp.GetOutputTokens()),
	}, nil
}

var (
	_ modelclient.EmbedClient = (*Client)(nil)
	_ modelclient.ChatClient  = (*Client)(nil)
)
