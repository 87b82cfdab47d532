// Package pipeline drives one relay run: resolve the feed through the
// fallback chain, decide what changed against the persisted sent-set, send
// the notifications, and persist the updated record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
	"github.com/couchcryptid/bom-alert-relay/internal/observability"
)

// ErrNotifyFailed is returned when the webhook rejected a message. The run
// stops immediately; messages already delivered are not rolled back.
var ErrNotifyFailed = errors.New("notification delivery failed")

const clearedMessage = "ℹ️ Warnings cleared - no current warnings in QLD."

// AlertResolver yields the run's alert set, typically a SourceChain.
type AlertResolver interface {
	Resolve(ctx context.Context) ([]domain.Alert, error)
}

// StateStore loads and saves the persisted sent-set. Load never fails: an
// unreadable record is empty state.
type StateStore interface {
	Load() domain.SentState
	Save(st domain.SentState) error
}

// Notifier delivers messages to the chat channel.
type Notifier interface {
	// Announce posts one alert. No retry; an error is fatal to the run.
	Announce(ctx context.Context, alert domain.Alert) error
	// Status posts a plain informational message (cleared / fetch failure).
	Status(ctx context.Context, text string) error
}

// Relay orchestrates a single run. One external trigger, one Run call,
// single-threaded throughout.
type Relay struct {
	resolver  AlertResolver
	store     StateStore
	notifier  Notifier
	logger    *slog.Logger
	metrics   *observability.Metrics
	forceSend bool
}

// New creates a Relay.
func New(resolver AlertResolver, store StateStore, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics, forceSend bool) *Relay {
	return &Relay{
		resolver:  resolver,
		store:     store,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
		forceSend: forceSend,
	}
}

// Run executes one fetch-decide-notify-persist cycle.
func (r *Relay) Run(ctx context.Context) error {
	start := time.Now()
	defer func() {
		r.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	current, err := r.resolver.Resolve(ctx)
	if err != nil {
		// Best-effort heads-up before the process signals failure: the
		// channel is more likely to be watched than the scheduler logs.
		if statusErr := r.notifier.Status(ctx, fmt.Sprintf("❌ Couldn't fetch BOM QLD warnings: %v", err)); statusErr != nil {
			r.logger.Warn("failed to report fetch failure", "error", statusErr)
		}
		return err
	}
	r.metrics.CurrentWarnings.Set(float64(len(current)))

	sent := r.store.Load()

	var decision domain.Decision
	if r.forceSend {
		r.logger.Info("force-send enabled, re-announcing all current alerts")
		decision = domain.ForceAnnounce(current)
	} else {
		decision = domain.Decide(current, sent)
	}
	r.metrics.Decisions.WithLabelValues(decision.Kind.String()).Inc()

	switch decision.Kind {
	case domain.NoOp:
		r.logger.Info("no change in warnings", "current", len(current))

	case domain.InitSilently:
		r.logger.Info("first run, recording current warnings without announcing",
			"current", len(current))

	case domain.AnnounceCleared:
		if err := r.notifier.Status(ctx, clearedMessage); err != nil {
			r.metrics.NotifyFailures.Inc()
			// Sentinel not persisted: the cleared notice retries next run.
			return fmt.Errorf("%w: cleared notice: %w", ErrNotifyFailed, err)
		}
		r.metrics.NotificationsSent.Inc()
		r.logger.Info("announced cleared warnings")

	case domain.AnnounceNew:
		if err := r.announce(ctx, decision.New, sent); err != nil {
			return err
		}
	}

	if decision.Persist {
		if err := r.store.Save(decision.Next); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	r.logger.Info("run complete",
		"decision", decision.Kind.String(),
		"current", len(current),
		"announced", len(decision.New),
	)
	return nil
}

// announce delivers one message per new alert, in feed order. On failure the
// store is updated with what was actually announced (previous set plus the
// delivered alerts), so the failed alert and everything after it retry next
// run while delivered ones are not repeated.
func (r *Relay) announce(ctx context.Context, alerts []domain.Alert, sent domain.SentState) error {
	delivered := sent
	for _, alert := range alerts {
		r.logger.Info("announcing alert", "id", alert.ID, "headline", alert.Headline)
		if err := r.notifier.Announce(ctx, alert); err != nil {
			r.metrics.NotifyFailures.Inc()
			if saveErr := r.store.Save(delivered); saveErr != nil {
				r.logger.Error("failed to save partial state after notify failure", "error", saveErr)
			}
			return fmt.Errorf("%w: alert %q: %w", ErrNotifyFailed, alert.ID, err)
		}
		r.metrics.NotificationsSent.Inc()
		delivered = delivered.WithAnnounced(alert.ID)
	}
	return nil
}
