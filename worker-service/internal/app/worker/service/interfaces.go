package service

import (
	"context"

	"cookboard/worker-service/internal/app/worker/entity"
)

type AuditServiceInterface interface {
	ProcessRatingEvent(ctx context.Context, event *entity.RatingEvent) error
	SweepAggregates(ctx context.Context) (*entity.SweepResult, error)
}
