package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yourname/northstar/internal"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", internal.NewZapLogger(zap.NewNop().Sugar()))
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedObjective(t *testing.T, store *SQLiteStore, userID string) *internal.Objective {
	t.Helper()
	now := time.Now()
	obj := &internal.Objective{
		ID:        "obj-" + userID,
		UserID:    userID,
		Name:      "Run a marathon",
		Category:  "health",
		CreatedAt: now,
		UpdatedAt: now,
		Pillars: []internal.Pillar{
			{ID: "pil-" + userID, ObjectiveID: "obj-" + userID, Name: "Endurance", Weight: 3, CreatedAt: now},
		},
		Metrics: []internal.Metric{
			{ID: "met-" + userID, ObjectiveID: "obj-" + userID, Name: "Weekly distance", Unit: "km", Type: "numeric", Target: 40, TargetDirection: "up", CreatedAt: now, UpdatedAt: now},
		},
		Rituals: []internal.Ritual{
			{ID: "rit-" + userID, ObjectiveID: "obj-" + userID, Name: "Morning run", Frequency: "daily", DaysOfWeek: []string{"mon", "wed", "fri"}, CreatedAt: now, UpdatedAt: now},
		},
	}
	assert.NoError(t, store.CreateObjective(context.Background(), obj))
	return obj
}

func TestOwnershipScoping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedObjective(t, store, "u1")
	seedObjective(t, store, "u2")

	// Direct ownership: u1 cannot see u2's objective.
	_, err := store.GetObjective(ctx, "obj-u2", "u1")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.ErrorIs(t, store.VerifyObjectiveOwner(ctx, "obj-u2", "u1"), internal.ErrNotFound)

	// Transitive ownership through the parent objective.
	_, err = store.GetMetric(ctx, "met-u2", "u1")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = store.GetRitual(ctx, "rit-u2", "u1")
	assert.ErrorIs(t, err, internal.ErrNotFound)

	// The rightful owner sees everything.
	obj, err := store.GetObjective(ctx, "obj-u2", "u2")
	assert.NoError(t, err)
	assert.Len(t, obj.Pillars, 1)
	assert.Len(t, obj.Metrics, 1)
	assert.Len(t, obj.Rituals, 1)
	assert.Equal(t, []string{"mon", "wed", "fri"}, obj.Rituals[0].DaysOfWeek)
}

func TestUpdateObjectiveNotOwned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedObjective(t, store, "u1")

	name := "Hijacked"
	_, err := store.UpdateObjective(ctx, "obj-u1", "u2", internal.ObjectivePatch{Name: &name})
	assert.ErrorIs(t, err, internal.ErrNotFound)

	// The row is untouched.
	obj, err := store.GetObjective(ctx, "obj-u1", "u1")
	assert.NoError(t, err)
	assert.Equal(t, "Run a marathon", obj.Name)
}

func TestMetricCurrentFollowsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedObjective(t, store, "u1")
	now := time.Now()

	first := &internal.MetricEntry{ID: "e1", MetricID: "met-u1", Value: 10, RecordedAt: now, CreatedAt: now}
	assert.NoError(t, store.CreateMetricEntry(ctx, first))

	// Backdated entry: recordedAt is older, but it was inserted last, so
	// current must follow it.
	backdated := &internal.MetricEntry{ID: "e2", MetricID: "met-u1", Value: 7, RecordedAt: now.AddDate(0, 0, -3), CreatedAt: now}
	assert.NoError(t, store.CreateMetricEntry(ctx, backdated))

	metric, err := store.GetMetric(ctx, "met-u1", "u1")
	assert.NoError(t, err)
	assert.Equal(t, 7.0, metric.Current)

	// Listing stays ordered by recordedAt, newest first.
	entries, err := store.ListMetricEntries(ctx, "met-u1")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, "e2", entries[1].ID)
}

func TestDeleteObjectiveCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedObjective(t, store, "u1")
	now := time.Now()

	task := &internal.Task{
		ID: "t1", UserID: "u1", ObjectiveID: "obj-u1", Title: "Long run",
		ScheduledAt: now, DurationMinutes: 60, Status: internal.TaskStatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	assert.NoError(t, store.CreateTask(ctx, task))

	assert.NoError(t, store.DeleteObjective(ctx, "obj-u1", "u1"))

	_, err := store.GetMetric(ctx, "met-u1", "u1")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	_, err = store.GetRitual(ctx, "rit-u1", "u1")
	assert.ErrorIs(t, err, internal.ErrNotFound)

	tasks, err := store.ListTasks(ctx, "u1", internal.TaskFilter{})
	assert.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedObjective(t, store, "u1")
	now := time.Now()

	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	tuesday := monday.AddDate(0, 0, 1)
	for i, scheduled := range []time.Time{monday, tuesday} {
		task := &internal.Task{
			ID: "t" + string(rune('1'+i)), UserID: "u1", ObjectiveID: "obj-u1", Title: "Session",
			ScheduledAt: scheduled, DurationMinutes: 30, Status: internal.TaskStatusPending,
			CreatedAt: now, UpdatedAt: now,
		}
		assert.NoError(t, store.CreateTask(ctx, task))
	}

	tasks, err := store.ListTasks(ctx, "u1", internal.TaskFilter{Day: &monday})
	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)

	objectiveID := "obj-u1"
	tasks, err = store.ListTasks(ctx, "u1", internal.TaskFilter{ObjectiveID: &objectiveID})
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	// Newest first.
	assert.Equal(t, "t2", tasks[0].ID)

	other := "obj-other"
	tasks, err = store.ListTasks(ctx, "u1", internal.TaskFilter{ObjectiveID: &other})
	assert.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestWaitlistDeduplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &internal.WaitlistEntry{ID: "w1", Email: "ada@example.com", CreatedAt: time.Now()}
	assert.NoError(t, store.AddToWaitlist(ctx, first))

	dup := &internal.WaitlistEntry{ID: "w2", Email: "ada@example.com", CreatedAt: time.Now()}
	assert.NoError(t, store.AddToWaitlist(ctx, dup))

	var count int
	assert.NoError(t, store.db.Get(&count, "SELECT COUNT(*) FROM waitlist"))
	assert.Equal(t, 1, count)
}

func TestGetUserByToken(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, store.CreateUser(ctx, &internal.User{ID: "u1", Token: "tok", Name: "Ada"}))

	user, err := store.GetUserByToken(ctx, "tok")
	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = store.GetUserByToken(ctx, "nope")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}
