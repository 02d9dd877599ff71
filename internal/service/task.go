package service

import (
	"context"
	"time"

	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/storage"
)

const defaultTaskDurationMinutes = 30

type TaskRequest struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" validate:"required"`
	ObjectiveID     string    `json:"objectiveId" validate:"required"`
	PillarID        *string   `json:"pillarId"`
	RitualID        *string   `json:"ritualId"`
	Description     *string   `json:"description"`
	WhyItMatters    *string   `json:"whyItMatters"`
	ScheduledAt     time.Time `json:"scheduledAt" validate:"required"`
	DurationMinutes *int      `json:"durationMinutes"`
}

func ValidateTaskRequest(req *TaskRequest) error {
	return validate.Struct(req)
}

// CreateTask persists a task after confirming the target objective
// belongs to the caller. A foreign objective surfaces as ErrNotFound.
func CreateTask(ctx context.Context, tasks storage.TaskRepository, objectives storage.ObjectiveRepository, user *internal.User, req *TaskRequest) (*internal.Task, error) {
	if err := objectives.VerifyObjectiveOwner(ctx, req.ObjectiveID, user.ID); err != nil {
		return nil, err
	}

	duration := defaultTaskDurationMinutes
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	now := time.Now()
	task := &internal.Task{
		ID:              orNewID(req.ID),
		UserID:          user.ID,
		ObjectiveID:     req.ObjectiveID,
		PillarID:        req.PillarID,
		RitualID:        req.RitualID,
		Title:           req.Title,
		Description:     req.Description,
		WhyItMatters:    req.WhyItMatters,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: duration,
		Status:          internal.TaskStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies a partial update. The first transition to the
// completed status stamps completedAt; repeating it leaves the original
// timestamp untouched.
func UpdateTask(ctx context.Context, repo storage.TaskRepository, user *internal.User, id string, patch internal.TaskPatch) (*internal.Task, error) {
	existing, err := repo.GetTask(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && *patch.Status == internal.TaskStatusCompleted && existing.CompletedAt == nil {
		now := time.Now()
		patch.CompletedAt = &now
	}
	return repo.UpdateTask(ctx, id, user.ID, patch)
}
