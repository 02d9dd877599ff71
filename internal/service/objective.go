package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/storage"
)

var validate = validator.New()

type PillarRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Weight      int     `json:"weight"`
}

type MetricRequest struct {
	ID              string  `json:"id"`
	Name            string  `json:"name" validate:"required"`
	Unit            string  `json:"unit"`
	Type            string  `json:"type"`
	Target          float64 `json:"target"`
	TargetDirection string  `json:"targetDirection"`
}

type RitualRequest struct {
	ID               string   `json:"id"`
	Name             string   `json:"name" validate:"required"`
	Description      *string  `json:"description"`
	Frequency        string   `json:"frequency"`
	DaysOfWeek       []string `json:"daysOfWeek"`
	TimesPerPeriod   *int     `json:"timesPerPeriod"`
	EstimatedMinutes *int     `json:"estimatedMinutes"`
}

type ObjectiveRequest struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name" validate:"required"`
	Category               string          `json:"category" validate:"required"`
	Description            *string         `json:"description"`
	TargetOutcome          *string         `json:"targetOutcome"`
	EndDate                *time.Time      `json:"endDate"`
	DailyCommitmentMinutes *int            `json:"dailyCommitmentMinutes"`
	Pillars                []PillarRequest `json:"pillars" validate:"dive"`
	Metrics                []MetricRequest `json:"metrics" validate:"dive"`
	Rituals                []RitualRequest `json:"rituals" validate:"dive"`
}

func ValidateObjectiveRequest(req *ObjectiveRequest) error {
	return validate.Struct(req)
}

// CreateObjective builds the full objective tree, honoring any
// client-supplied IDs, and persists it in one transaction.
func CreateObjective(ctx context.Context, repo storage.ObjectiveRepository, user *internal.User, req *ObjectiveRequest) (*internal.Objective, error) {
	now := time.Now()
	obj := &internal.Objective{
		ID:                     orNewID(req.ID),
		UserID:                 user.ID,
		Name:                   req.Name,
		Category:               req.Category,
		Description:            req.Description,
		TargetOutcome:          req.TargetOutcome,
		EndDate:                req.EndDate,
		DailyCommitmentMinutes: req.DailyCommitmentMinutes,
		CreatedAt:              now,
		UpdatedAt:              now,
		Pillars:                []internal.Pillar{},
		Metrics:                []internal.Metric{},
		Rituals:                []internal.Ritual{},
	}

	for _, p := range req.Pillars {
		obj.Pillars = append(obj.Pillars, internal.Pillar{
			ID:          orNewID(p.ID),
			ObjectiveID: obj.ID,
			Name:        p.Name,
			Description: p.Description,
			Weight:      p.Weight,
			CreatedAt:   now,
		})
	}
	for _, m := range req.Metrics {
		obj.Metrics = append(obj.Metrics, internal.Metric{
			ID:              orNewID(m.ID),
			ObjectiveID:     obj.ID,
			Name:            m.Name,
			Unit:            m.Unit,
			Type:            m.Type,
			Target:          m.Target,
			TargetDirection: m.TargetDirection,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	for _, r := range req.Rituals {
		obj.Rituals = append(obj.Rituals, internal.Ritual{
			ID:               orNewID(r.ID),
			ObjectiveID:      obj.ID,
			Name:             r.Name,
			Description:      r.Description,
			Frequency:        r.Frequency,
			DaysOfWeek:       r.DaysOfWeek,
			TimesPerPeriod:   r.TimesPerPeriod,
			EstimatedMinutes: r.EstimatedMinutes,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	if err := repo.CreateObjective(ctx, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// orNewID keeps a client-generated ID verbatim so optimistic client-side
// creation stays idempotent.
func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
