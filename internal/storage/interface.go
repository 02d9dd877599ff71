package storage

import (
	"context"

	"github.com/yourname/northstar/internal"
)

// Detail limits applied by GetObjective, matching what the dashboard
// actually renders.
const (
	metricEntryLimit      = 30
	ritualCompletionLimit = 30
	objectiveTaskLimit    = 50
)

// All lookups that take a userID are ownership-scoped: a row that exists
// but belongs to someone else yields internal.ErrNotFound.

type ObjectiveRepository interface {
	CreateObjective(ctx context.Context, obj *internal.Objective) error
	// VerifyObjectiveOwner reports internal.ErrNotFound unless the
	// objective exists and belongs to userID.
	VerifyObjectiveOwner(ctx context.Context, id, userID string) error
	ListObjectives(ctx context.Context, userID string) ([]internal.Objective, error)
	GetObjective(ctx context.Context, id, userID string) (*internal.Objective, error)
	UpdateObjective(ctx context.Context, id, userID string, patch internal.ObjectivePatch) (*internal.Objective, error)
	DeleteObjective(ctx context.Context, id, userID string) error
}

type MetricRepository interface {
	GetMetric(ctx context.Context, id, userID string) (*internal.Metric, error)
	ListMetricEntries(ctx context.Context, metricID string) ([]internal.MetricEntry, error)
	CreateMetricEntry(ctx context.Context, entry *internal.MetricEntry) error
}

type RitualRepository interface {
	GetRitual(ctx context.Context, id, userID string) (*internal.Ritual, error)
	ListRitualCompletions(ctx context.Context, ritualID string) ([]internal.RitualCompletion, error)
	CreateRitualCompletion(ctx context.Context, completion *internal.RitualCompletion) error
	UpdateRitualStreak(ctx context.Context, ritualID string, current, longest int) error
}

type TaskRepository interface {
	ListTasks(ctx context.Context, userID string, filter internal.TaskFilter) ([]internal.Task, error)
	CreateTask(ctx context.Context, task *internal.Task) error
	GetTask(ctx context.Context, id, userID string) (*internal.Task, error)
	UpdateTask(ctx context.Context, id, userID string, patch internal.TaskPatch) (*internal.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
}

type WaitlistRepository interface {
	// AddToWaitlist inserts the entry; a duplicate email is a silent no-op.
	AddToWaitlist(ctx context.Context, entry *internal.WaitlistEntry) error
}

type UserRepository interface {
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
}

// Store bundles every repository a single backend provides.
type Store interface {
	ObjectiveRepository
	MetricRepository
	RitualRepository
	TaskRepository
	WaitlistRepository
	UserRepository
	Close() error
}
