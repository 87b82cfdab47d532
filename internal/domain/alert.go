package domain

import "strings"

// DefaultHeadline is substituted when a feed item carries no usable title.
const DefaultHeadline = "Weather Warning"

// Alert is one normalized hazard warning extracted from a feed.
// ID is non-empty and stable across runs for the same underlying hazard.
type Alert struct {
	ID          string `json:"id"`
	Headline    string `json:"headline"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// NewAlert builds an Alert from raw feed fields, applying the fallback
// chains for the identifier (identifier → link → headline) and headline
// (title → DefaultHeadline). Returns false when no field yields an ID.
func NewAlert(identifier, headline, description, link string) (Alert, bool) {
	identifier = strings.TrimSpace(identifier)
	headline = strings.TrimSpace(headline)
	description = strings.TrimSpace(description)
	link = strings.TrimSpace(link)

	id := identifier
	if id == "" {
		id = link
	}
	if id == "" {
		id = headline
	}
	if id == "" {
		return Alert{}, false
	}

	if headline == "" {
		headline = DefaultHeadline
	}

	return Alert{
		ID:          id,
		Headline:    headline,
		Description: description,
		Link:        link,
	}, true
}

// IDsOf returns the set of identifiers present in alerts.
func IDsOf(alerts []Alert) map[string]struct{} {
	ids := make(map[string]struct{}, len(alerts))
	for _, a := range alerts {
		ids[a.ID] = struct{}{}
	}
	return ids
}
