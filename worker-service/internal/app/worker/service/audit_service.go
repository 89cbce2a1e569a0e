package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"cookboard/pkg/logger"
	"cookboard/pkg/metrics"
	"cookboard/worker-service/internal/app/worker/entity"
	"cookboard/worker-service/internal/app/worker/repository"
)

// Допустимое расхождение среднего из-за накопления ошибок округления
// в инкрементальных формулах recipes-service
const driftEpsilon = 1e-6

// AuditService ведет журнал событий оценок и сверяет сохраненные агрегаты
// рецептов с фактическими оценками
type AuditService struct {
	auditRepo repository.AuditLogRepository
	aggRepo   repository.AggregateRepository
}

// NewAuditService создает новый сервис аудита
func NewAuditService(auditRepo repository.AuditLogRepository, aggRepo repository.AggregateRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		aggRepo:   aggRepo,
	}
}

// ProcessRatingEvent записывает событие оценки в журнал аудита
func (s *AuditService) ProcessRatingEvent(ctx context.Context, event *entity.RatingEvent) error {
	if event.RecipeID == "" {
		return fmt.Errorf("rating event has no recipe id")
	}

	auditEvent := &entity.AuditEvent{
		EventType:  event.EventType,
		RatingID:   event.RatingID,
		RecipeID:   event.RecipeID,
		UserID:     event.UserID,
		Value:      event.Value,
		AvgRating:  event.AvgRating,
		NumRatings: event.NumRatings,
		OccurredAt: event.Timestamp,
	}

	if err := s.auditRepo.Save(ctx, auditEvent); err != nil {
		return fmt.Errorf("failed to save audit event: %w", err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("recipe_id", event.RecipeID).
		Float64("avg_rating", event.AvgRating).
		Int64("num_ratings", event.NumRatings).
		Msg("Rating event recorded")

	// Точечная сверка рецепта из события, не дожидаясь планового прохода.
	// Ошибка сверки не откатывает обработку: событие уже в журнале
	if _, err := s.auditRecipe(ctx, event.RecipeID); err != nil {
		logger.Warn().Err(err).Str("recipe_id", event.RecipeID).Msg("Targeted aggregate audit failed")
	}

	return nil
}

// auditRecipe сверяет агрегат одного рецепта и чинит расхождение.
// Удаленный рецепт не считается ошибкой
func (s *AuditService) auditRecipe(ctx context.Context, recipeID string) (bool, error) {
	stored, err := s.aggRepo.GetRecipeAggregate(ctx, recipeID)
	if err != nil {
		if err == repository.ErrRecipeNotFound {
			return false, nil
		}
		return false, err
	}

	return s.checkAndRepair(ctx, stored)
}

// checkAndRepair пересчитывает агрегат и перезаписывает сохраненный при дрейфе
func (s *AuditService) checkAndRepair(ctx context.Context, stored *entity.RecipeAggregate) (bool, error) {
	actual, err := s.aggRepo.ComputeAggregate(ctx, stored.RecipeID)
	if err != nil {
		return false, err
	}

	metrics.AuditRecipesChecked.Inc()

	if aggregatesMatch(stored, actual) {
		return false, nil
	}

	if err := s.aggRepo.RepairAggregate(ctx, stored.RecipeID, actual.AvgRating, actual.NumRatings); err != nil {
		return false, err
	}

	metrics.AuditRepairs.Inc()
	logger.Warn().
		Str("recipe_id", stored.RecipeID).
		Float64("stored_avg", stored.AvgRating).
		Int64("stored_num", stored.NumRatings).
		Float64("actual_avg", actual.AvgRating).
		Int64("actual_num", actual.NumRatings).
		Msg("Aggregate drift repaired")

	return true, nil
}

// SweepAggregates сверяет сохраненные агрегаты всех рецептов с пересчетом
// по отдельным оценкам и чинит найденные расхождения
func (s *AuditService) SweepAggregates(ctx context.Context) (*entity.SweepResult, error) {
	started := time.Now()

	stored, err := s.aggRepo.ListRecipeAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe aggregates: %w", err)
	}

	result := &entity.SweepResult{StartedAt: started}

	for _, agg := range stored {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		repaired, err := s.checkAndRepair(ctx, &agg)
		if err != nil {
			result.Failed++
			logger.Error().Err(err).Str("recipe_id", agg.RecipeID).Msg("Failed to audit aggregate")
			continue
		}

		result.Checked++
		if repaired {
			result.Repaired++
		}
	}

	result.Duration = time.Since(started)
	metrics.AuditSweepDuration.Observe(result.Duration.Seconds())

	logger.Info().
		Int("checked", result.Checked).
		Int("repaired", result.Repaired).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("Aggregate audit sweep completed")

	return result, nil
}

// aggregatesMatch сравнивает агрегаты: счетчик строго, среднее с допуском
func aggregatesMatch(stored, actual *entity.RecipeAggregate) bool {
	if stored.NumRatings != actual.NumRatings {
		return false
	}
	return math.Abs(stored.AvgRating-actual.AvgRating) <= driftEpsilon
}
