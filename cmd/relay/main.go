// Command relay performs one BOM-warnings-to-Discord relay run and exits.
// It is intended to be triggered periodically by an external scheduler
// (cron, CI); it holds no resources beyond the run and serializes state
// through a single JSON file.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/bom-alert-relay/internal/adapter/bom"
	"github.com/couchcryptid/bom-alert-relay/internal/adapter/discord"
	"github.com/couchcryptid/bom-alert-relay/internal/config"
	"github.com/couchcryptid/bom-alert-relay/internal/observability"
	"github.com/couchcryptid/bom-alert-relay/internal/pipeline"
	"github.com/couchcryptid/bom-alert-relay/internal/state"
)

func main() {
	// Local development convenience; in production the scheduler provides
	// the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := bom.NewClient(cfg.UserAgent, cfg.FetchTimeout)
	chain := pipeline.NewSourceChain(bom.Sources(cfg, client), logger, metrics)
	store := state.NewFileStore(cfg.StateFile, logger, metrics.StateCorruptions.Inc)

	var notifier pipeline.Notifier
	if cfg.WebhookURL != "" {
		notifier = discord.NewWebhook(cfg.WebhookURL, cfg.NotifyTimeout, logger)
	} else {
		logger.Warn("DISCORD_WEBHOOK_URL not set, notifications will be logged only")
		notifier = discord.NewNop(logger)
	}

	relay := pipeline.New(chain, store, notifier, logger, metrics, cfg.ForceSend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := relay.Run(ctx)
	metrics.Push(cfg.PushgatewayURL, logger)

	if runErr != nil {
		logger.Error("relay run failed", "error", runErr)
		stop()
		os.Exit(1)
	}
}
