package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrail/backend/internal/domain"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
)

func seedEvent(t *testing.T, env *testEnv, ownerID string, action domain.HistoryAction, ts time.Time) *domain.HistoryRecord {
	t.Helper()
	record := &domain.HistoryRecord{
		OwnerID:   ownerID,
		Text:      "seeded",
		Action:    action,
		Progress:  50,
		Timestamp: ts,
	}
	require.NoError(t, env.history.Create(context.Background(), record))
	return record
}

func TestEventsOnFiltersByCalendarDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	second := time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)

	a := seedEvent(t, env, session.UserID, domain.ActionCompleted, first)
	seedEvent(t, env, session.UserID, domain.ActionDeleted, second)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	events, err := env.hsvc.EventsOn(ctx, session, day)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, a.ID, events[0].ID)

	// Filtering is idempotent: the same query returns the same subset.
	again, err := env.hsvc.EventsOn(ctx, session, day)
	require.NoError(t, err)
	assert.Equal(t, events, again)

	// Late-evening events still land on their own day, not a neighbor.
	evening := time.Date(2024, 1, 1, 23, 59, 0, 0, time.Local)
	seedEvent(t, env, session.UserID, domain.ActionReset, evening)
	events, err = env.hsvc.EventsOn(ctx, session, day)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestEventsOnUsesConfiguredZone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	// A zone well west of most servers, where local-midnight boundaries
	// diverge hardest.
	loc := time.FixedZone("UTC-11", -11*60*60)
	hsvc := NewHistoryService(HistoryServiceConfig{
		History:  env.history,
		Streams:  env.streams,
		Logger:   logger.NewNop(),
		Location: loc,
	})

	seedEvent(t, env, session.UserID, domain.ActionCompleted, time.Date(2024, 1, 2, 12, 0, 0, 0, loc))
	seedEvent(t, env, session.UserID, domain.ActionReset, time.Date(2024, 1, 1, 23, 0, 0, 0, loc))

	// The requested day is parsed in the service's zone, the same way the
	// HTTP layer does it. Parsing it anywhere else shifts the boundary.
	day, err := time.ParseInLocation("2006-01-02", "2024-01-02", loc)
	require.NoError(t, err)

	events, err := hsvc.EventsOn(ctx, session, day)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionCompleted, events[0].Action)

	// The late-evening event from the day before stays on its own day.
	prev, err := time.ParseInLocation("2006-01-02", "2024-01-01", loc)
	require.NoError(t, err)
	events, err = hsvc.EventsOn(ctx, session, prev)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionReset, events[0].Action)
}

func TestEventsOnExcludesZeroTimestamps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	seedEvent(t, env, session.UserID, domain.ActionCleared, time.Time{})
	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	seedEvent(t, env, session.UserID, domain.ActionCompleted, ts)

	events, err := env.hsvc.EventsOn(ctx, session, ts)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionCompleted, events[0].Action)
}

func TestEventsOrderedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	older := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	newer := time.Date(2024, 5, 1, 18, 0, 0, 0, time.Local)
	seedEvent(t, env, session.UserID, domain.ActionReset, older)
	seedEvent(t, env, session.UserID, domain.ActionCompleted, newer)

	events, err := env.hsvc.Events(ctx, session)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.ActionCompleted, events[0].Action)
	assert.Equal(t, domain.ActionReset, events[1].Action)
}

func TestDeleteEventOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testSession()
	bob := otherSession()

	record := seedEvent(t, env, alice.UserID, domain.ActionDeleted, time.Now())

	err := env.hsvc.DeleteEvent(ctx, bob, record.ID)
	assert.ErrorIs(t, err, ErrHistoryNotFound)

	require.NoError(t, env.hsvc.DeleteEvent(ctx, alice, record.ID))
	assert.Empty(t, env.allHistory(t, alice.UserID))

	err = env.hsvc.DeleteEvent(ctx, alice, record.ID)
	assert.ErrorIs(t, err, ErrHistoryNotFound)
}

func TestClearAllHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testSession()
	bob := otherSession()

	seedEvent(t, env, alice.UserID, domain.ActionCompleted, time.Now())
	seedEvent(t, env, alice.UserID, domain.ActionReset, time.Now())
	kept := seedEvent(t, env, bob.UserID, domain.ActionCleared, time.Now())

	require.NoError(t, env.hsvc.ClearAll(ctx, alice))
	assert.Empty(t, env.allHistory(t, alice.UserID))

	// Another owner's history is untouched.
	bobEvents := env.allHistory(t, bob.UserID)
	require.Len(t, bobEvents, 1)
	assert.Equal(t, kept.ID, bobEvents[0].ID)
}
