package bom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
	"golang.org/x/net/html"
)

// warningKeywords is the allow-list for the HTML scrape. The warnings page
// mixes navigation and boilerplate into the same markup as the warning list,
// so only text mentioning a hazard type is kept.
var warningKeywords = []string{
	"Warning",
	"Severe",
	"Thunderstorm",
	"Cyclone",
	"Flood",
	"Heatwave",
	"Tsunami",
	"Fire Weather",
}

// boilerplate are known non-warning strings that match the keyword list,
// e.g. the section header above the warning list itself.
var boilerplate = []string{
	"Warnings current",
}

// blockTags are the elements whose text is considered one candidate warning.
// Generous on purpose: the BOM page layout moves around during site changes.
var blockTags = map[string]struct{}{
	"li":  {},
	"p":   {},
	"a":   {},
	"div": {},
}

// ParseWarningsPage scrapes warning headlines from the BOM warnings HTML
// page. Candidates are deduplicated preserving page order; the headline text
// doubles as the alert identifier since the page carries no guid. The result
// can legitimately be empty only when the page genuinely lists no hazard
// text; callers treat an empty scrape as unreliable (see the source chain).
func ParseWarningsPage(data []byte) ([]domain.Alert, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse warnings page: %w", err)
	}

	var alerts []domain.Alert
	seen := map[string]struct{}{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := blockTags[n.Data]; ok {
				if text := nodeText(n); keepWarningText(text) {
					if _, dup := seen[text]; !dup {
						seen[text] = struct{}{}
						if a, ok := domain.NewAlert("", text, "", ""); ok {
							alerts = append(alerts, a)
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return alerts, nil
}

// nodeText returns the node's visible text with whitespace collapsed,
// matching how a reader sees the headline.
func nodeText(n *html.Node) string {
	var b strings.Builder

	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	return strings.Join(strings.Fields(b.String()), " ")
}

func keepWarningText(text string) bool {
	if text == "" {
		return false
	}
	for _, b := range boilerplate {
		if strings.Contains(text, b) {
			return false
		}
	}
	for _, k := range warningKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
