package service

import (
	"context"
	"time"

	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/storage"
)

type MetricEntryRequest struct {
	ID         string     `json:"id"`
	Value      *float64   `json:"value" validate:"required"`
	Note       *string    `json:"note"`
	RecordedAt *time.Time `json:"recordedAt"`
}

func ValidateMetricEntryRequest(req *MetricEntryRequest) error {
	return validate.Struct(req)
}

// RecordMetricEntry appends an entry to the metric's history. The
// metric's current value always follows the latest insert, even when
// recordedAt is backdated.
func RecordMetricEntry(ctx context.Context, repo storage.MetricRepository, metric *internal.Metric, req *MetricEntryRequest) (*internal.MetricEntry, error) {
	now := time.Now()
	recordedAt := now
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}
	entry := &internal.MetricEntry{
		ID:         orNewID(req.ID),
		MetricID:   metric.ID,
		Value:      *req.Value,
		Note:       req.Note,
		RecordedAt: recordedAt,
		CreatedAt:  now,
	}
	if err := repo.CreateMetricEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
