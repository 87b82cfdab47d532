package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
	"github.com/couchcryptid/bom-alert-relay/internal/observability"
)

// ErrChainExhausted is returned when every source in the chain failed.
var ErrChainExhausted = errors.New("all feed sources failed")

// Source pairs a fetch operation with a parser for one upstream feed format.
// A source fails as a unit: fetch error, parse error, or, for sources not
// authoritative on empty, an empty parse result.
type Source struct {
	Name     string
	Priority int

	// AuthoritativeOnEmpty marks formats where an empty result really means
	// "no current warnings". The HTML scrape is not authoritative: an empty
	// scrape is indistinguishable from a page layout change, so it must not
	// be allowed to trigger a cleared transition.
	AuthoritativeOnEmpty bool

	Fetch func(ctx context.Context) ([]byte, error)
	Parse func(data []byte) ([]domain.Alert, error)
}

// SourceChain tries sources in ascending priority order until one yields an
// acceptable result. Callers cannot tell which source answered; there is no
// cross-source merging.
type SourceChain struct {
	sources []Source
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSourceChain builds a chain from the given sources, ordered by priority.
func NewSourceChain(sources []Source, logger *slog.Logger, metrics *observability.Metrics) *SourceChain {
	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })
	return &SourceChain{sources: ordered, logger: logger, metrics: metrics}
}

// Resolve returns the run's alert set from the first source that answers.
// Per-source failures are logged and recorded, not returned; only when every
// source fails does Resolve fail, wrapping ErrChainExhausted with the last
// failure for context.
func (c *SourceChain) Resolve(ctx context.Context) ([]domain.Alert, error) {
	var lastErr error
	for _, src := range c.sources {
		alerts, err := c.try(ctx, src)
		if err != nil {
			lastErr = err
			c.logger.Warn("feed source failed, trying next",
				"source", src.Name, "priority", src.Priority, "error", err)
			continue
		}
		c.metrics.SourceAttempts.WithLabelValues(src.Name, "accepted").Inc()
		c.logger.Info("feed source accepted",
			"source", src.Name, "alerts", len(alerts))
		return alerts, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no sources configured")
	}
	return nil, fmt.Errorf("%w: %w", ErrChainExhausted, lastErr)
}

func (c *SourceChain) try(ctx context.Context, src Source) ([]domain.Alert, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		c.metrics.SourceAttempts.WithLabelValues(src.Name, "fetch_error").Inc()
		return nil, err
	}

	alerts, err := src.Parse(data)
	if err != nil {
		c.metrics.SourceAttempts.WithLabelValues(src.Name, "parse_error").Inc()
		return nil, err
	}

	if len(alerts) == 0 && !src.AuthoritativeOnEmpty {
		c.metrics.SourceAttempts.WithLabelValues(src.Name, "empty_rejected").Inc()
		return nil, fmt.Errorf("source %s returned no alerts and is not authoritative on empty", src.Name)
	}
	return alerts, nil
}
