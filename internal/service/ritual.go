package service

import (
	"context"
	"time"

	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/storage"
)

type CompletionRequest struct {
	ID          string     `json:"id"`
	Note        *string    `json:"note"`
	CompletedAt *time.Time `json:"completedAt"`
}

// CompleteRitual records a completion, then recomputes and persists the
// ritual's streaks from the full completion history. The longest streak
// only ever grows.
func CompleteRitual(ctx context.Context, repo storage.RitualRepository, ritual *internal.Ritual, req *CompletionRequest) (*internal.RitualCompletion, int, error) {
	now := time.Now()
	completedAt := now
	if req.CompletedAt != nil {
		completedAt = *req.CompletedAt
	}
	completion := &internal.RitualCompletion{
		ID:          orNewID(req.ID),
		RitualID:    ritual.ID,
		Note:        req.Note,
		CompletedAt: completedAt,
		CreatedAt:   now,
	}
	if err := repo.CreateRitualCompletion(ctx, completion); err != nil {
		return nil, 0, err
	}

	completions, err := repo.ListRitualCompletions(ctx, ritual.ID)
	if err != nil {
		return nil, 0, err
	}
	times := make([]time.Time, len(completions))
	for i, c := range completions {
		times[i] = c.CompletedAt
	}

	streak := CalculateStreak(times)
	longest := ritual.LongestStreak
	if streak > longest {
		longest = streak
	}
	if err := repo.UpdateRitualStreak(ctx, ritual.ID, streak, longest); err != nil {
		return nil, 0, err
	}
	return completion, streak, nil
}
