package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DiscordSender delivers alerts via a Discord webhook.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordSender creates a DiscordSender for the given webhook URL.
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: senderTimeout},
	}
}

type discordMessage struct {
	Content string `json:"content"`
}

// Send posts the alert to the webhook. Discord replies 204 on success; any
// non-2xx status is treated as a failure.
func (d *DiscordSender) Send(ctx context.Context, title, message string) error {
	body, err := json.Marshal(discordMessage{
		Content: fmt.Sprintf("**%s**\n%s", title, message),
	})
	if err != nil {
		return fmt.Errorf("discord: marshal payload: %w", err)
	}

	return postJSON(ctx, d.client, "discord", d.webhookURL, body)
}

// Name returns the sender identifier.
func (d *DiscordSender) Name() string {
	return "discord"
}
