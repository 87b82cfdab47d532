// Package domain models Bureau of Meteorology (BOM) hazard warnings and the
// announce/suppress decision taken on each run.
//
// # Data Source
//
// Warnings come from the BOM Queensland warning products. The structured
// feeds list one item per active warning; the public warnings page renders
// the same list as HTML. Polling is driven by an external scheduler; this
// package only sees the normalized result of one poll.
//
// # Identifier Derivation
//
// BOM items do not always carry an explicit identifier. IDs are derived by
// the fallback chain
//
//	identifier (guid) → link → headline text
//
// Product links are stable per warning (e.g. ".../warnings/IDQ20032.html"),
// so the derived ID is stable across runs for the same hazard. Headline text
// is the last resort, used by the HTML scrape where no guid or per-warning
// link is available.
//
// # Sent-State Transitions
//
// The persisted sent-set drives four outcomes, computed by [Decide]:
//
//	first run, feed non-empty   → record silently (no replay of old warnings)
//	feed emptied since last run → announce "cleared" once, record sentinel
//	feed unchanged              → nothing
//	feed changed                → announce the new alerts only
//
// On announcing transitions the sent-set is fully replaced with the current
// feed's identifiers rather than grown, so a warning that silently drops out
// of the feed does not pin the record forever. [ClearedSentinel] marks that
// the empty-feed condition was already announced, preventing a repeat
// "cleared" notice on every subsequent quiet run.
package domain
