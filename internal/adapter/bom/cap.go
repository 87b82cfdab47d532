package bom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
)

// capAlert mirrors the Common Alerting Protocol fields the relay needs.
// Field tags carry no namespace on purpose: encoding/xml then matches on
// local name, so `<identifier>` and `<cap:identifier>` both decode; CAP
// documents in the wild disagree on whether elements carry a prefix.
type capAlert struct {
	Identifier string    `xml:"identifier"`
	Info       []capInfo `xml:"info"`
}

type capInfo struct {
	Headline    string `xml:"headline"`
	Description string `xml:"description"`
	Web         string `xml:"web"`
}

// ParseCAP maps a CAP XML document to normalized alerts. The document may be
// a single <alert> or an aggregate wrapping several; each <alert> element
// yields one Alert from its first <info> block.
func ParseCAP(data []byte) ([]domain.Alert, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var alerts []domain.Alert
	sawElement := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse cap: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if start.Name.Local != "alert" {
			continue
		}

		var ca capAlert
		if err := dec.DecodeElement(&ca, &start); err != nil {
			return nil, fmt.Errorf("parse cap alert: %w", err)
		}

		var info capInfo
		if len(ca.Info) > 0 {
			info = ca.Info[0]
		}
		a, ok := domain.NewAlert(ca.Identifier, info.Headline, info.Description, info.Web)
		if !ok {
			continue
		}
		alerts = append(alerts, a)
	}

	if !sawElement {
		return nil, errors.New("parse cap: no XML content")
	}
	return alerts, nil
}
