package domain_test

import (
	"testing"
	"time"

	"github.com/couchcryptid/bom-alert-relay/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freezeClock(t *testing.T) clockwork.Clock {
	t.Helper()
	fake := clockwork.NewFakeClockAt(time.Date(2025, time.November, 3, 6, 30, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })
	return fake
}

func alerts(ids ...string) []domain.Alert {
	out := make([]domain.Alert, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Alert{ID: id, Headline: "Severe Thunderstorm Warning"})
	}
	return out
}

func TestDecide_FirstRunRecordsSilently(t *testing.T) {
	freezeClock(t)

	d := domain.Decide(alerts("A1"), domain.EmptySentState())

	assert.Equal(t, domain.InitSilently, d.Kind)
	assert.Empty(t, d.New)
	require.True(t, d.Persist)
	assert.Equal(t, []string{"A1"}, d.Next.AlertIDs())
}

func TestDecide_UnchangedFeedIsNoOp(t *testing.T) {
	freezeClock(t)

	d := domain.Decide(alerts("A1", "A2"), domain.NewSentState([]string{"A2", "A1"}))

	assert.Equal(t, domain.NoOp, d.Kind)
	assert.False(t, d.Persist)
}

func TestDecide_NewAlertsAnnouncedInFeedOrder(t *testing.T) {
	freezeClock(t)

	current := alerts("A1", "A3", "A2")
	d := domain.Decide(current, domain.NewSentState([]string{"A1"}))

	require.Equal(t, domain.AnnounceNew, d.Kind)
	require.Len(t, d.New, 2)
	assert.Equal(t, "A3", d.New[0].ID)
	assert.Equal(t, "A2", d.New[1].ID)
	require.True(t, d.Persist)
	// Full replace: persisted record matches the feed exactly.
	assert.Equal(t, []string{"A1", "A2", "A3"}, d.Next.AlertIDs())
}

func TestDecide_FullReplaceDropsVanishedIDs(t *testing.T) {
	freezeClock(t)

	d := domain.Decide(alerts("A2"), domain.NewSentState([]string{"A1", "A2"}))

	// A1 vanished without a cleared signal: nothing to announce, but the
	// record is replaced so A1 can be re-announced if it ever returns.
	assert.Equal(t, domain.NoOp, d.Kind)
	require.True(t, d.Persist)
	assert.Equal(t, []string{"A2"}, d.Next.AlertIDs())
}

func TestDecide_EmptyFeedAnnouncesClearedOnce(t *testing.T) {
	freezeClock(t)

	sent := domain.NewSentState([]string{"A1"})
	d := domain.Decide(nil, sent)

	require.Equal(t, domain.AnnounceCleared, d.Kind)
	require.True(t, d.Persist)
	assert.True(t, d.Next.IsClearedOnly())

	// Second quiet run against the sentinel state: silence.
	again := domain.Decide(nil, d.Next)
	assert.Equal(t, domain.NoOp, again.Kind)
	assert.False(t, again.Persist)
}

func TestDecide_EmptyFeedOnFirstRunIsNoOp(t *testing.T) {
	d := domain.Decide(nil, domain.EmptySentState())
	assert.Equal(t, domain.NoOp, d.Kind)
	assert.False(t, d.Persist)
}

func TestDecide_AlertsAfterClearedAreAnnounced(t *testing.T) {
	freezeClock(t)

	sent := domain.Decide(nil, domain.NewSentState([]string{"A1"})).Next
	require.True(t, sent.IsClearedOnly())

	d := domain.Decide(alerts("A2"), sent)
	require.Equal(t, domain.AnnounceNew, d.Kind)
	require.Len(t, d.New, 1)
	assert.Equal(t, "A2", d.New[0].ID)
	assert.Equal(t, []string{"A2"}, d.Next.AlertIDs())
	assert.False(t, d.Next.Contains(domain.ClearedSentinel))
}

func TestDecide_DuplicateFeedIDsAnnouncedOnce(t *testing.T) {
	freezeClock(t)

	d := domain.Decide(alerts("A1", "A2", "A2"), domain.NewSentState([]string{"A1"}))
	require.Equal(t, domain.AnnounceNew, d.Kind)
	require.Len(t, d.New, 1)
	assert.Equal(t, "A2", d.New[0].ID)
}

func TestDecide_NextStateIsStamped(t *testing.T) {
	fake := freezeClock(t)

	d := domain.Decide(alerts("A1"), domain.EmptySentState())
	require.True(t, d.Persist)
	assert.Equal(t, fake.Now(), d.Next.UpdatedAt)
}
