package bom

import (
	"encoding/xml"
	"fmt"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
)

// rssFeed mirrors the parts of the BOM warning RSS product the relay needs.
// Missing elements decode to empty strings and go through the Alert fallback
// chains.
type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
}

// ParseRSS maps a BOM warning RSS document to normalized alerts, preserving
// feed order. An empty channel is a valid result: the RSS product lists no
// items when no warnings are current.
func ParseRSS(data []byte) ([]domain.Alert, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}

	alerts := make([]domain.Alert, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		a, ok := domain.NewAlert(item.GUID, item.Title, item.Description, item.Link)
		if !ok {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
