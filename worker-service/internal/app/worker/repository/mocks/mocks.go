package mocks

import (
	"context"

	"cookboard/worker-service/internal/app/worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockAuditLogRepository мок для AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Save(ctx context.Context, event *entity.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]entity.AuditEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AuditEvent), args.Error(1)
}

func (m *MockAuditLogRepository) CountByRecipe(ctx context.Context, recipeID string) (int64, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAggregateRepository мок для AggregateRepository
type MockAggregateRepository struct {
	mock.Mock
}

func (m *MockAggregateRepository) ListRecipeAggregates(ctx context.Context) ([]entity.RecipeAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RecipeAggregate), args.Error(1)
}

func (m *MockAggregateRepository) GetRecipeAggregate(ctx context.Context, recipeID string) (*entity.RecipeAggregate, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecipeAggregate), args.Error(1)
}

func (m *MockAggregateRepository) ComputeAggregate(ctx context.Context, recipeID string) (*entity.RecipeAggregate, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecipeAggregate), args.Error(1)
}

func (m *MockAggregateRepository) RepairAggregate(ctx context.Context, recipeID string, avgRating float64, numRatings int64) error {
	args := m.Called(ctx, recipeID, avgRating, numRatings)
	return args.Error(0)
}
