package discord_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/bom-alert-relay/internal/adapter/discord"
	"github.com/couchcryptid/bom-alert-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPayload struct {
	Content  string `json:"content"`
	Username string `json:"username"`
	Embeds   []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Color       int    `json:"color"`
		Footer      struct {
			Text string `json:"text"`
		} `json:"footer"`
	} `json:"embeds"`
}

func captureServer(t *testing.T, status int) (*httptest.Server, *capturedPayload) {
	t.Helper()
	var captured capturedPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestWebhook_AnnounceSendsEmbed(t *testing.T) {
	srv, captured := captureServer(t, http.StatusNoContent)
	w := discord.NewWebhook(srv.URL, 5*time.Second, slog.Default())

	err := w.Announce(context.Background(), domain.Alert{
		ID:          "IDQ21035",
		Headline:    "Severe Thunderstorm Warning",
		Description: "Damaging winds likely.",
		Link:        "http://www.bom.gov.au/products/IDQ21035.shtml",
	})
	require.NoError(t, err)

	assert.Equal(t, "BOM Warnings (QLD)", captured.Username)
	require.Len(t, captured.Embeds, 1)
	embed := captured.Embeds[0]
	assert.Contains(t, embed.Title, "Severe Thunderstorm Warning")
	assert.Equal(t, "Damaging winds likely.", embed.Description)
	assert.Equal(t, "http://www.bom.gov.au/products/IDQ21035.shtml", embed.URL)
	assert.Equal(t, 0xFF6600, embed.Color)
	assert.Contains(t, embed.Footer.Text, "Bureau of Meteorology")
}

func TestWebhook_AnnounceTruncatesDescriptionOnly(t *testing.T) {
	srv, captured := captureServer(t, http.StatusNoContent)
	w := discord.NewWebhook(srv.URL, 5*time.Second, slog.Default())

	longHeadline := "Flood Warning for the Balonne River"
	err := w.Announce(context.Background(), domain.Alert{
		ID:          "IDQ20032",
		Headline:    longHeadline,
		Description: strings.Repeat("水", 2500),
		Link:        "http://www.bom.gov.au/products/IDQ20032.shtml",
	})
	require.NoError(t, err)

	require.Len(t, captured.Embeds, 1)
	embed := captured.Embeds[0]
	// Rune-counted ceiling on the description; headline and link intact.
	assert.Equal(t, 2000, len([]rune(embed.Description)))
	assert.Contains(t, embed.Title, longHeadline)
	assert.Equal(t, "http://www.bom.gov.au/products/IDQ20032.shtml", embed.URL)
}

func TestWebhook_StatusSendsPlainContent(t *testing.T) {
	srv, captured := captureServer(t, http.StatusNoContent)
	w := discord.NewWebhook(srv.URL, 5*time.Second, slog.Default())

	require.NoError(t, w.Status(context.Background(), "ℹ️ Warnings cleared"))
	assert.Equal(t, "ℹ️ Warnings cleared", captured.Content)
	assert.Empty(t, captured.Embeds)
}

func TestWebhook_RejectionSurfacesError(t *testing.T) {
	srv, _ := captureServer(t, http.StatusTooManyRequests)
	w := discord.NewWebhook(srv.URL, 5*time.Second, slog.Default())

	err := w.Status(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, discord.ErrWebhookRejected))
	assert.Contains(t, err.Error(), "429")
}

func TestNop_AlwaysSucceeds(t *testing.T) {
	n := discord.NewNop(slog.Default())
	assert.NoError(t, n.Announce(context.Background(), domain.Alert{ID: "A1", Headline: "x"}))
	assert.NoError(t, n.Status(context.Background(), "y"))
}
