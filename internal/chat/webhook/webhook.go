// Package webhook posts outbound notices through a chat-platform webhook.
//
// Webhooks only go one way, so Reply degrades to a log line; this gateway
// is meant for the remind job and for deployments where a full platform
// adapter is not wired in.
package webhook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"github.com/hieudt/debitbot/internal/chat"
)

// Ensure Gateway implements chat.Gateway
var _ chat.Gateway = (*Gateway)(nil)

// Gateway delivers notices via HTTP POST to a webhook URL.
type Gateway struct {
	client   *resty.Client
	url      string
	username string
}

// New creates a webhook gateway posting as the given username.
func New(url, username string) *Gateway {
	return &Gateway{
		client:   resty.New(),
		url:      url,
		username: username,
	}
}

type payload struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// PostNotice delivers one notice to the webhook.
func (g *Gateway) PostNotice(ctx context.Context, _ string, note chat.Note) error {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload{Username: g.username, Content: note.Content}).
		Post(g.url)
	if err != nil {
		return fmt.Errorf("failed to post webhook notice: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// Reply cannot be delivered through a webhook; the content is logged so
// it is not silently lost.
func (g *Gateway) Reply(_ context.Context, cmd chat.Command, content string, _ bool) error {
	slog.Info("command reply (webhook gateway, not delivered)",
		"command", cmd.Name,
		"actor_id", cmd.ActorID,
		"content", content,
	)
	return nil
}
