package domain

import (
	"sort"
	"time"
)

// ClearedSentinel is a reserved identifier recorded in the sent-set after a
// "warnings cleared" announcement. It never collides with feed identifiers
// (BOM IDs are product codes or URLs) and prevents repeat cleared notices.
const ClearedSentinel = "__cleared__"

// SentState is the persisted record of alert identifiers already announced.
// A state containing only ClearedSentinel means the empty-feed condition has
// itself been announced.
type SentState struct {
	IDs       map[string]struct{}
	UpdatedAt time.Time
}

// EmptySentState returns a state with no identifiers and no sentinel,
// i.e. the first-run state.
func EmptySentState() SentState {
	return SentState{IDs: map[string]struct{}{}}
}

// NewSentState builds a state from a list of identifiers, stamped with the
// package clock.
func NewSentState(ids []string) SentState {
	s := SentState{IDs: make(map[string]struct{}, len(ids)), UpdatedAt: clock.Now()}
	for _, id := range ids {
		if id != "" {
			s.IDs[id] = struct{}{}
		}
	}
	return s
}

// IsEmpty reports whether the state records nothing at all: no announced
// alerts and no cleared sentinel.
func (s SentState) IsEmpty() bool {
	return len(s.IDs) == 0
}

// IsClearedOnly reports whether the state holds the cleared sentinel and
// nothing else.
func (s SentState) IsClearedOnly() bool {
	_, ok := s.IDs[ClearedSentinel]
	return ok && len(s.IDs) == 1
}

// Contains reports whether id was already announced.
func (s SentState) Contains(id string) bool {
	_, ok := s.IDs[id]
	return ok
}

// AlertIDs returns the announced identifiers, sentinel excluded, sorted for
// stable persistence.
func (s SentState) AlertIDs() []string {
	ids := make([]string, 0, len(s.IDs))
	for id := range s.IDs {
		if id != ClearedSentinel {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// SortedIDs returns every identifier in the state, sentinel included, sorted.
func (s SentState) SortedIDs() []string {
	ids := make([]string, 0, len(s.IDs))
	for id := range s.IDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithAnnounced returns a copy of the state with id added, restamped. Any
// cleared sentinel is dropped: once an alert is announced, the empty-feed
// condition no longer holds.
func (s SentState) WithAnnounced(id string) SentState {
	next := SentState{IDs: make(map[string]struct{}, len(s.IDs)+1), UpdatedAt: clock.Now()}
	for k := range s.IDs {
		if k != ClearedSentinel {
			next.IDs[k] = struct{}{}
		}
	}
	next.IDs[id] = struct{}{}
	return next
}

// clearedState is the state persisted after announcing that the feed emptied.
func clearedState() SentState {
	return SentState{IDs: map[string]struct{}{ClearedSentinel: {}}, UpdatedAt: clock.Now()}
}

// stateFromAlerts replaces the sent-set with the identifiers of the current
// feed (full-replace persistence policy).
func stateFromAlerts(alerts []Alert) SentState {
	s := SentState{IDs: make(map[string]struct{}, len(alerts)), UpdatedAt: clock.Now()}
	for _, a := range alerts {
		s.IDs[a.ID] = struct{}{}
	}
	return s
}
