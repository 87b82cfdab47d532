package discord

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
)

// Nop is the notifier used when no webhook URL is configured: it logs what
// would have been sent and always succeeds. Lets the relay run end to end
// (including state updates) without a channel, e.g. in local testing.
type Nop struct {
	logger *slog.Logger
}

// NewNop creates a logging no-op notifier.
func NewNop(logger *slog.Logger) *Nop {
	return &Nop{logger: logger}
}

func (n *Nop) Announce(_ context.Context, alert domain.Alert) error {
	n.logger.Info("webhook not configured, would have announced",
		"id", alert.ID, "headline", alert.Headline, "link", alert.Link)
	return nil
}

func (n *Nop) Status(_ context.Context, text string) error {
	n.logger.Info("webhook not configured, would have sent", "content", text)
	return nil
}
