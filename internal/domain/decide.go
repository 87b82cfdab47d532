package domain

// DecisionKind classifies the outcome of comparing the current feed against
// the persisted sent-set.
type DecisionKind int

const (
	// NoOp means nothing changed; no notifications, no state write.
	NoOp DecisionKind = iota
	// InitSilently means this is the first run: record the current alerts
	// without announcing them, so a fresh deployment doesn't replay the
	// whole active warning list.
	InitSilently
	// AnnounceCleared means the feed emptied since the last run: announce
	// that warnings cleared, then record the sentinel.
	AnnounceCleared
	// AnnounceNew means the feed changed: announce each alert not yet in
	// the sent-set.
	AnnounceNew
)

func (k DecisionKind) String() string {
	switch k {
	case NoOp:
		return "no_op"
	case InitSilently:
		return "init_silently"
	case AnnounceCleared:
		return "announce_cleared"
	case AnnounceNew:
		return "announce_new"
	default:
		return "unknown"
	}
}

// Decision is the notification plan for one run.
type Decision struct {
	Kind DecisionKind
	// New holds the alerts to announce, in feed order. Populated only for
	// AnnounceNew.
	New []Alert
	// Next is the state to persist after the run. Valid whenever Persist
	// is true.
	Next    SentState
	Persist bool
}

// Decide computes the notification decision for the current feed contents
// against the previously persisted state. It is a pure function of its
// inputs (aside from timestamping the next state via the package clock).
//
// The persisted set is fully replaced with the current feed's identifiers on
// every announcing transition, so the record self-heals if an alert drops
// out of the feed without an explicit cleared signal.
func Decide(current []Alert, sent SentState) Decision {
	switch {
	case len(current) == 0:
		if sent.IsEmpty() || sent.IsClearedOnly() {
			return Decision{Kind: NoOp}
		}
		return Decision{Kind: AnnounceCleared, Next: clearedState(), Persist: true}

	case sent.IsEmpty():
		return Decision{Kind: InitSilently, Next: stateFromAlerts(current), Persist: true}

	default:
		currentIDs := IDsOf(current)
		if sameIDs(currentIDs, sent) {
			return Decision{Kind: NoOp}
		}

		fresh := make([]Alert, 0, len(current))
		seen := make(map[string]struct{}, len(current))
		for _, a := range current {
			if sent.Contains(a.ID) {
				continue
			}
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			fresh = append(fresh, a)
		}
		if len(fresh) == 0 {
			// IDs differ only by removals (or a stale sentinel): nothing
			// to announce, but replace the record so it matches the feed.
			return Decision{Kind: NoOp, Next: stateFromAlerts(current), Persist: true}
		}
		return Decision{Kind: AnnounceNew, New: fresh, Next: stateFromAlerts(current), Persist: true}
	}
}

// ForceAnnounce builds the decision for a forced run: every current alert is
// re-announced regardless of the sent-set, and the record is replaced with
// the current feed's identifiers. Used for webhook testing.
func ForceAnnounce(current []Alert) Decision {
	if len(current) == 0 {
		return Decision{Kind: NoOp}
	}
	fresh := make([]Alert, 0, len(current))
	seen := make(map[string]struct{}, len(current))
	for _, a := range current {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		fresh = append(fresh, a)
	}
	return Decision{Kind: AnnounceNew, New: fresh, Next: stateFromAlerts(current), Persist: true}
}

// sameIDs reports whether the current feed identifiers exactly match the
// announced identifiers on record (sentinel excluded).
func sameIDs(current map[string]struct{}, sent SentState) bool {
	announced := sent.AlertIDs()
	if len(current) != len(announced) || sent.IsClearedOnly() {
		return false
	}
	for _, id := range announced {
		if _, ok := current[id]; !ok {
			return false
		}
	}
	return true
}
