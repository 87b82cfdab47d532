// Package discord delivers relay notifications to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
	"golang.org/x/time/rate"
)

// ErrWebhookRejected is wrapped into every non-2xx webhook response.
var ErrWebhookRejected = errors.New("discord webhook rejected message")

const (
	// maxDescriptionRunes is the transport ceiling for the message body.
	// Truncation applies to the description only, never headline or link.
	maxDescriptionRunes = 2000

	username    = "BOM Warnings (QLD)"
	embedTitle  = "⚠️ New BOM Warning"
	embedColor  = 0xFF6600
	footerText  = "Source: Bureau of Meteorology – Queensland"
	maxErrBytes = 512
)

// Webhook posts messages to a Discord webhook URL. It implements
// pipeline.Notifier.
type Webhook struct {
	url        string
	httpClient *http.Client
	// Discord allows ~30 webhook requests per minute; sending faster gets
	// the whole run 429'd mid-announcement.
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewWebhook creates a webhook notifier with the given per-request timeout.
func NewWebhook(url string, timeout time.Duration, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(0.5), 5),
		logger:     logger,
	}
}

// Discord webhook payload types.

type payload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Color       int    `json:"color"`
	Footer      footer `json:"footer"`
}

type footer struct {
	Text string `json:"text"`
}

// Announce posts one alert as an embed. No retry: a rejected message is
// fatal to the run and the alert stays unrecorded for the next one.
func (w *Webhook) Announce(ctx context.Context, alert domain.Alert) error {
	body := alert.Description
	if body == "" {
		body = alert.Headline
	}
	return w.post(ctx, payload{
		Username: username,
		Embeds: []embed{{
			Title:       embedTitle + ": " + alert.Headline,
			Description: truncate(body, maxDescriptionRunes),
			URL:         alert.Link,
			Color:       embedColor,
			Footer:      footer{Text: footerText},
		}},
	})
}

// Status posts a plain content message.
func (w *Webhook) Status(ctx context.Context, text string) error {
	return w.post(ctx, payload{Content: truncate(text, maxDescriptionRunes)})
}

func (w *Webhook) post(ctx context.Context, p payload) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBytes))
		return fmt.Errorf("%w: status %d: %s", ErrWebhookRejected, resp.StatusCode, body)
	}

	w.logger.Debug("webhook message delivered", "status", resp.StatusCode, "bytes", len(data))
	return nil
}

// truncate limits s to n runes. Counted in runes, not bytes, so a multibyte
// warning text never gets cut mid-character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
