// Package notify provides an incoming-webhook client (Mattermost and Slack
// compatible) for household notifications.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/homequest/chorequest/internal/config"
	"github.com/homequest/chorequest/pkg/logger"
)

const botName = "ChoreQuest"

// Client handles webhook notifications.
type Client struct {
	webhookURL string
	channel    string
	enabled    bool
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new webhook client.
func NewClient(cfg *config.NotifyConfig, log *logger.Logger) *Client {
	return &Client{
		webhookURL: cfg.WebhookURL,
		channel:    cfg.Channel,
		enabled:    cfg.Enabled,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Enabled reports whether messages are actually sent.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Message represents an incoming-webhook payload.
type Message struct {
	Channel     string       `json:"channel,omitempty"`
	Username    string       `json:"username,omitempty"`
	Text        string       `json:"text,omitempty"`
	IconURL     string       `json:"icon_url,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment represents a message attachment.
type Attachment struct {
	Fallback string  `json:"fallback,omitempty"`
	Color    string  `json:"color,omitempty"`
	Pretext  string  `json:"pretext,omitempty"`
	Title    string  `json:"title,omitempty"`
	Text     string  `json:"text,omitempty"`
	Fields   []Field `json:"fields,omitempty"`
	Footer   string  `json:"footer,omitempty"`
}

// Field represents a message field.
type Field struct {
	Short bool   `json:"short"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// DigestEntry is one line of the daily household digest.
type DigestEntry struct {
	Rank         int
	UserName     string
	EarnedPoints int
	LevelName    string
	Streak       int
}

// SendMessage posts msg to the webhook.
func (c *Client) SendMessage(ctx context.Context, msg *Message) error {
	if !c.enabled {
		c.log.Debug().Msg("Notifications are disabled, skipping message")
		return nil
	}

	if msg.Channel == "" {
		msg.Channel = c.channel
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	c.log.Debug().
		Str("channel", msg.Channel).
		Msg("Sent webhook message")

	return nil
}

// SendSimpleMessage sends a simple text message.
func (c *Client) SendSimpleMessage(ctx context.Context, text string) error {
	return c.SendMessage(ctx, &Message{
		Text: text,
	})
}

// SendDailyDigest posts the top of a household's leaderboard.
func (c *Client) SendDailyDigest(ctx context.Context, household string, entries []DigestEntry) error {
	if len(entries) == 0 {
		c.log.Debug().Str("household", household).Msg("Empty leaderboard, skipping daily digest")
		return nil
	}

	return c.SendMessage(ctx, &Message{
		Username: botName,
		Text:     formatDigest(household, entries),
	})
}

func formatDigest(household string, entries []DigestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### 🏆 Daily chore standings for **%s**\n\n", household)

	for _, e := range entries {
		icon := "•"
		switch e.Rank {
		case 1:
			icon = "🥇"
		case 2:
			icon = "🥈"
		case 3:
			icon = "🥉"
		}

		streak := ""
		if e.Streak > 1 {
			streak = fmt.Sprintf(" 🔥 %d-day streak", e.Streak)
		}

		fmt.Fprintf(&b, "%s **%s**: %d points (%s)%s\n", icon, e.UserName, e.EarnedPoints, e.LevelName, streak)
	}

	b.WriteString("\n_Chores were reset for the new day. Go get them!_")
	return b.String()
}
