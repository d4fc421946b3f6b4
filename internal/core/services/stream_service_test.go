package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrail/backend/internal/domain"
)

func receiveSnapshot(t *testing.T, c <-chan any) any {
	t.Helper()
	select {
	case snapshot, ok := <-c:
		require.True(t, ok, "stream closed unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	_, err := env.svc.AddTask(ctx, session, "already there")
	require.NoError(t, err)

	sub, err := env.streams.Subscribe(ctx, session, domain.StreamOngoing)
	require.NoError(t, err)
	defer env.streams.Unsubscribe(sub.ID)

	snapshot := receiveSnapshot(t, sub.C).(domain.TaskSnapshot)
	assert.Equal(t, domain.StreamOngoing, snapshot.Kind)
	require.Len(t, snapshot.Tasks, 1)
	assert.Equal(t, "already there", snapshot.Tasks[0].Text)
}

func TestMutationsPushFullSnapshots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	ongoing, err := env.streams.Subscribe(ctx, session, domain.StreamOngoing)
	require.NoError(t, err)
	defer env.streams.Unsubscribe(ongoing.ID)
	completed, err := env.streams.Subscribe(ctx, session, domain.StreamCompleted)
	require.NoError(t, err)
	defer env.streams.Unsubscribe(completed.ID)
	history, err := env.streams.Subscribe(ctx, session, domain.StreamHistory)
	require.NoError(t, err)
	defer env.streams.Unsubscribe(history.ID)

	// Drain the initial (empty) snapshots.
	receiveSnapshot(t, ongoing.C)
	receiveSnapshot(t, completed.C)
	receiveSnapshot(t, history.C)

	task, err := env.svc.AddTask(ctx, session, "pushed")
	require.NoError(t, err)

	snapshot := receiveSnapshot(t, ongoing.C).(domain.TaskSnapshot)
	require.Len(t, snapshot.Tasks, 1)
	assert.Equal(t, task.ID, snapshot.Tasks[0].ID)

	// Completing moves the task across partitions and lands a history
	// event; each stream sees a full replacement snapshot.
	_, err = env.svc.ToggleComplete(ctx, session, task.ID)
	require.NoError(t, err)

	ongoingSnap := receiveSnapshot(t, ongoing.C).(domain.TaskSnapshot)
	assert.Empty(t, ongoingSnap.Tasks)
	completedSnap := receiveSnapshot(t, completed.C).(domain.TaskSnapshot)
	require.Len(t, completedSnap.Tasks, 1)
	assert.True(t, completedSnap.Tasks[0].Completed)
	historySnap := receiveSnapshot(t, history.C).(domain.HistorySnapshot)
	require.Len(t, historySnap.Events, 1)
	assert.Equal(t, domain.ActionCompleted, historySnap.Events[0].Action)
}

func TestSubscribeRacingMutationNeverMissesIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	// A task added while Subscribe is in flight must show up either in the
	// initial snapshot or in a fan-out delivery. Repeat to give the
	// interleavings a chance to occur.
	for i := 0; i < 20; i++ {
		added := make(chan *domain.Task, 1)
		go func() {
			task, err := env.svc.AddTask(ctx, session, "raced")
			assert.NoError(t, err)
			added <- task
		}()

		sub, err := env.streams.Subscribe(ctx, session, domain.StreamOngoing)
		require.NoError(t, err)

		task := <-added
		require.NotNil(t, task)

		deadline := time.After(2 * time.Second)
		for seen := false; !seen; {
			select {
			case snapshot := <-sub.C:
				for _, got := range snapshot.(domain.TaskSnapshot).Tasks {
					if got.ID == task.ID {
						seen = true
					}
				}
			case <-deadline:
				t.Fatalf("iteration %d: subscriber never saw the task added during subscribe", i)
			}
		}

		env.streams.Unsubscribe(sub.ID)
		require.NoError(t, env.svc.DeleteTask(ctx, session, task.ID))
	}
}

func TestSlowSubscriberGetsLatestSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := testSession()

	sub, err := env.streams.Subscribe(ctx, session, domain.StreamOngoing)
	require.NoError(t, err)
	defer env.streams.Unsubscribe(sub.ID)

	// Never consumed the initial snapshot; pile up several mutations.
	_, err = env.svc.AddTask(ctx, session, "one")
	require.NoError(t, err)
	_, err = env.svc.AddTask(ctx, session, "two")
	require.NoError(t, err)
	_, err = env.svc.AddTask(ctx, session, "three")
	require.NoError(t, err)

	// The single buffered delivery is the newest state, not the oldest.
	snapshot := receiveSnapshot(t, sub.C).(domain.TaskSnapshot)
	assert.Len(t, snapshot.Tasks, 3)
}

func TestUnsubscribeClosesStream(t *testing.T) {
	env := newTestEnv(t)
	session := testSession()

	sub, err := env.streams.Subscribe(context.Background(), session, domain.StreamHistory)
	require.NoError(t, err)

	receiveSnapshot(t, sub.C)
	env.streams.Unsubscribe(sub.ID)

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// Unsubscribing twice is harmless.
	env.streams.Unsubscribe(sub.ID)
}

func TestSubscribeValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.streams.Subscribe(context.Background(), domain.Session{}, domain.StreamOngoing)
	assert.ErrorIs(t, err, ErrAuthNoSession)

	_, err = env.streams.Subscribe(context.Background(), testSession(), domain.StreamKind("bogus"))
	assert.ErrorIs(t, err, ErrStreamUnknownKind)
}

func TestStreamsAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testSession()
	bob := otherSession()

	sub, err := env.streams.Subscribe(ctx, bob, domain.StreamOngoing)
	require.NoError(t, err)
	defer env.streams.Unsubscribe(sub.ID)
	receiveSnapshot(t, sub.C)

	_, err = env.svc.AddTask(ctx, alice, "not for bob")
	require.NoError(t, err)

	select {
	case snapshot := <-sub.C:
		t.Fatalf("bob received alice's snapshot: %+v", snapshot)
	case <-time.After(100 * time.Millisecond):
	}
}
