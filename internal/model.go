package internal

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by the storage layer when a row does not exist
// or is owned by another user. The two cases are intentionally
// indistinguishable so that foreign resources are never disclosed.
var ErrNotFound = errors.New("not found")

type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewAppError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

type User struct {
	ID    string `json:"id"`
	Token string `json:"token,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Objective is the top-level goal container. Nested slices are populated
// by list/detail queries, not by every lookup.
type Objective struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"userId"`
	Name                   string     `json:"name"`
	Category               string     `json:"category"`
	Description            *string    `json:"description,omitempty"`
	TargetOutcome          *string    `json:"targetOutcome,omitempty"`
	EndDate                *time.Time `json:"endDate,omitempty"`
	DailyCommitmentMinutes *int       `json:"dailyCommitmentMinutes,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`

	Pillars []Pillar `json:"pillars"`
	Metrics []Metric `json:"metrics"`
	Rituals []Ritual `json:"rituals"`
	Tasks   []Task   `json:"tasks,omitempty"`
}

type Pillar struct {
	ID          string    `json:"id"`
	ObjectiveID string    `json:"objectiveId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Weight      int       `json:"weight"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Metric struct {
	ID              string    `json:"id"`
	ObjectiveID     string    `json:"objectiveId"`
	Name            string    `json:"name"`
	Unit            string    `json:"unit"`
	Type            string    `json:"type"`
	Target          float64   `json:"target"`
	TargetDirection string    `json:"targetDirection"`
	Current         float64   `json:"current"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Entries []MetricEntry `json:"entries,omitempty"`
}

type MetricEntry struct {
	ID         string    `json:"id"`
	MetricID   string    `json:"metricId"`
	Value      float64   `json:"value"`
	Note       *string   `json:"note,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Ritual struct {
	ID               string    `json:"id"`
	ObjectiveID      string    `json:"objectiveId"`
	Name             string    `json:"name"`
	Description      *string   `json:"description,omitempty"`
	Frequency        string    `json:"frequency"`
	DaysOfWeek       []string  `json:"daysOfWeek,omitempty"`
	TimesPerPeriod   *int      `json:"timesPerPeriod,omitempty"`
	EstimatedMinutes *int      `json:"estimatedMinutes,omitempty"`
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Completions []RitualCompletion `json:"completions,omitempty"`
}

type RitualCompletion struct {
	ID          string    `json:"id"`
	RitualID    string    `json:"ritualId"`
	Note        *string   `json:"note,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
	TaskStatusSkipped   = "skipped"
)

type Task struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	ObjectiveID     string     `json:"objectiveId"`
	PillarID        *string    `json:"pillarId,omitempty"`
	RitualID        *string    `json:"ritualId,omitempty"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	WhyItMatters    *string    `json:"whyItMatters,omitempty"`
	ScheduledAt     time.Time  `json:"scheduledAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Status          string     `json:"status"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type WaitlistEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ObjectivePatch holds the fields a PATCH /objectives/:id may change.
// Nil means "leave unchanged".
type ObjectivePatch struct {
	Name                   *string    `json:"name"`
	Category               *string    `json:"category"`
	Description            *string    `json:"description"`
	TargetOutcome          *string    `json:"targetOutcome"`
	EndDate                *time.Time `json:"endDate"`
	DailyCommitmentMinutes *int       `json:"dailyCommitmentMinutes"`
}

// TaskPatch holds the fields a PATCH /tasks/:id may change. CompletedAt
// is not client-settable; the service fills it on the first transition
// to the completed status.
type TaskPatch struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	WhyItMatters    *string    `json:"whyItMatters"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DurationMinutes *int       `json:"durationMinutes"`
	Status          *string    `json:"status"`
	PillarID        *string    `json:"pillarId"`
	RitualID        *string    `json:"ritualId"`

	CompletedAt *time.Time `json:"-"`
}

// TaskFilter narrows GET /tasks. Day filters to that calendar day
// inclusive; both predicates are conjunctive.
type TaskFilter struct {
	Day         *time.Time
	ObjectiveID *string
}
