package bom

import (
	"context"

	"github.com/couchcryptid/bom-alert-relay/internal/config"
	"github.com/couchcryptid/bom-alert-relay/internal/pipeline"
)

// Sources builds the default fallback chain from config: the RSS product
// first, the CAP feed when configured, the HTML warnings page last. The
// structured feeds are authoritative on empty (no items means no warnings);
// the scrape is not, since an empty scrape usually means the page layout
// changed.
func Sources(cfg *config.Config, client *Client) []pipeline.Source {
	var sources []pipeline.Source

	if cfg.RSSFeedURL != "" {
		sources = append(sources, pipeline.Source{
			Name:                 "rss",
			Priority:             1,
			AuthoritativeOnEmpty: true,
			Fetch:                fetchURL(client, cfg.RSSFeedURL),
			Parse:                ParseRSS,
		})
	}
	if cfg.CAPFeedURL != "" {
		sources = append(sources, pipeline.Source{
			Name:                 "cap",
			Priority:             2,
			AuthoritativeOnEmpty: true,
			Fetch:                fetchURL(client, cfg.CAPFeedURL),
			Parse:                ParseCAP,
		})
	}
	if cfg.WarningsPageURL != "" {
		sources = append(sources, pipeline.Source{
			Name:     "scrape",
			Priority: 3,
			Fetch:    fetchURL(client, cfg.WarningsPageURL),
			Parse:    ParseWarningsPage,
		})
	}

	return sources
}

func fetchURL(client *Client, url string) func(ctx context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		return client.Fetch(ctx, url)
	}
}
