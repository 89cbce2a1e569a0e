package repository

import (
	"context"
	"fmt"

	"cookboard/worker-service/internal/app/worker/entity"

	"gorm.io/gorm"
)

// auditLogRepository реализует AuditLogRepository поверх PostgreSQL через GORM
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository создает новый репозиторий журнала аудита
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Save записывает событие оценки в журнал аудита
func (r *auditLogRepository) Save(ctx context.Context, event *entity.AuditEvent) error {
	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		return fmt.Errorf("failed to save audit event: %w", result.Error)
	}

	return nil
}

// ListRecent возвращает последние события журнала
func (r *auditLogRepository) ListRecent(ctx context.Context, limit int) ([]entity.AuditEvent, error) {
	var events []entity.AuditEvent

	result := r.db.WithContext(ctx).
		Order("received_at DESC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", result.Error)
	}

	return events, nil
}

// CountByRecipe возвращает число событий по рецепту
func (r *auditLogRepository) CountByRecipe(ctx context.Context, recipeID string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&entity.AuditEvent{}).
		Where("recipe_id = ?", recipeID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", result.Error)
	}

	return count, nil
}
