package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"MetricsGuard/internal/ports"
)

// severityColors mirror the attachment sidebar colors used in the alert
// channel; unknown tags fall back to gray.
var severityColors = map[string]string{
	"CRITICAL": "#dc2626",
	"WARNING":  "#d97706",
	"INFO":     "#2563eb",
	"PASS":     "#10b981",
}

// Notifier posts run alerts to a Slack incoming webhook.
type Notifier struct {
	webhookURL string
	channel    string
	client     *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers the webhook URL and target channel.
func NewNotifier(webhookURL, channel string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		channel:    channel,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

type attachment struct {
	Color  string `json:"color"`
	Text   string `json:"text"`
	Footer string `json:"footer"`
}

type payload struct {
	Channel     string       `json:"channel,omitempty"`
	Attachments []attachment `json:"attachments"`
}

// Notify posts the message as a colored attachment keyed by the severity tag.
func (n *Notifier) Notify(ctx context.Context, tag string, message string) error {
	if n.webhookURL == "" || n.client == nil {
		return fmt.Errorf("slack notifier misconfigured")
	}

	color, ok := severityColors[tag]
	if !ok {
		color = "#6b7280"
	}

	body, err := json.Marshal(payload{
		Channel: n.channel,
		Attachments: []attachment{{
			Color:  color,
			Text:   message,
			Footer: "metricsguard",
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack error: %s", resp.Status)
	}

	return nil
}
