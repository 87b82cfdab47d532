package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Default BOM Queensland endpoints. The RSS feed is the primary source; the
// public warnings page is the scrape fallback when the feed is unreachable.
const (
	DefaultRSSFeedURL      = "https://reg.bom.gov.au/fwo/IDZ00056.warnings_qld.xml"
	DefaultWarningsPageURL = "https://www.bom.gov.au/products/warn_qld.shtml"

	defaultUserAgent = "bom-alert-relay/1.0 (+https://github.com/couchcryptid/bom-alert-relay)"
)

// Config holds all service settings, populated from environment variables.
// Constructed once in main and passed down; there are no package globals.
type Config struct {
	WebhookURL string
	StateFile  string

	RSSFeedURL      string
	CAPFeedURL      string // optional; CAP source disabled when empty
	WarningsPageURL string
	UserAgent       string

	FetchTimeout  time.Duration
	NotifyTimeout time.Duration

	ForceSend bool

	LogLevel  string
	LogFormat string

	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults
// where unset. An empty DISCORD_WEBHOOK_URL is valid: notifications degrade
// to a local logger.
func Load() (*Config, error) {
	fetchTimeout, err := parseTimeout("FETCH_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := parseTimeout("NOTIFY_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		StateFile:  envOrDefault("STATE_FILE", "sent_warnings.json"),

		RSSFeedURL:      envOrDefault("RSS_FEED_URL", DefaultRSSFeedURL),
		CAPFeedURL:      os.Getenv("CAP_FEED_URL"),
		WarningsPageURL: envOrDefault("WARNINGS_PAGE_URL", DefaultWarningsPageURL),
		UserAgent:       envOrDefault("USER_AGENT", defaultUserAgent),

		FetchTimeout:  fetchTimeout,
		NotifyTimeout: notifyTimeout,

		ForceSend: os.Getenv("FORCE_SEND") == "true",

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.StateFile == "" {
		return nil, errors.New("STATE_FILE must not be empty")
	}
	if cfg.RSSFeedURL == "" && cfg.CAPFeedURL == "" && cfg.WarningsPageURL == "" {
		return nil, errors.New("at least one feed source must be configured")
	}
	for name, raw := range map[string]string{
		"DISCORD_WEBHOOK_URL": cfg.WebhookURL,
		"RSS_FEED_URL":        cfg.RSSFeedURL,
		"CAP_FEED_URL":        cfg.CAPFeedURL,
		"WARNINGS_PAGE_URL":   cfg.WarningsPageURL,
		"PUSHGATEWAY_URL":     cfg.PushgatewayURL,
	} {
		if err := validateURL(name, raw); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseTimeout(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q", name, raw)
	}
	return nil
}
