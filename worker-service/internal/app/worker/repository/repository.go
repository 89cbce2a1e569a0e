package repository

import (
	"context"
	"errors"

	"cookboard/worker-service/internal/app/worker/entity"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// AuditLogRepository - журнал аудита событий оценок в PostgreSQL
type AuditLogRepository interface {
	Save(ctx context.Context, event *entity.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]entity.AuditEvent, error)
	CountByRecipe(ctx context.Context, recipeID string) (int64, error)
}

// AggregateRepository - доступ к рецептам и оценкам в MongoDB recipes-service
type AggregateRepository interface {
	// ListRecipeAggregates возвращает сохраненные агрегаты всех рецептов
	ListRecipeAggregates(ctx context.Context) ([]entity.RecipeAggregate, error)
	// GetRecipeAggregate возвращает сохраненный агрегат одного рецепта
	GetRecipeAggregate(ctx context.Context, recipeID string) (*entity.RecipeAggregate, error)
	// ComputeAggregate пересчитывает агрегат рецепта по отдельным оценкам
	ComputeAggregate(ctx context.Context, recipeID string) (*entity.RecipeAggregate, error)
	// RepairAggregate перезаписывает сохраненный агрегат рецепта
	RepairAggregate(ctx context.Context, recipeID string, avgRating float64, numRatings int64) error
}
