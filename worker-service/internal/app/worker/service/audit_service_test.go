package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cookboard/worker-service/internal/app/worker/entity"
	"cookboard/worker-service/internal/app/worker/repository"
	"cookboard/worker-service/internal/app/worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuditService() (*AuditService, *mocks.MockAuditLogRepository, *mocks.MockAggregateRepository) {
	auditRepo := new(mocks.MockAuditLogRepository)
	aggRepo := new(mocks.MockAggregateRepository)
	return NewAuditService(auditRepo, aggRepo), auditRepo, aggRepo
}

func TestProcessRatingEvent_SavesAuditRecord(t *testing.T) {
	svc, auditRepo, aggRepo := newTestAuditService()
	occurred := time.Now().Add(-time.Minute)

	aggRepo.On("GetRecipeAggregate", mock.Anything, "recipe-1").
		Return(&entity.RecipeAggregate{RecipeID: "recipe-1", AvgRating: 4.5, NumRatings: 2}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "recipe-1").
		Return(&entity.RecipeAggregate{RecipeID: "recipe-1", AvgRating: 4.5, NumRatings: 2}, nil)

	auditRepo.On("Save", mock.Anything, mock.MatchedBy(func(e *entity.AuditEvent) bool {
		return e.EventType == entity.EventRatingCreated &&
			e.RecipeID == "recipe-1" &&
			e.UserID == "user-1" &&
			e.Value == 4.0 &&
			e.AvgRating == 4.5 &&
			e.NumRatings == 2 &&
			e.OccurredAt.Equal(occurred)
	})).Return(nil)

	err := svc.ProcessRatingEvent(context.Background(), &entity.RatingEvent{
		EventType:  entity.EventRatingCreated,
		RecipeID:   "recipe-1",
		UserID:     "user-1",
		Value:      4.0,
		AvgRating:  4.5,
		NumRatings: 2,
		Timestamp:  occurred,
	})

	require.NoError(t, err)
	auditRepo.AssertExpectations(t)
	aggRepo.AssertNotCalled(t, "RepairAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessRatingEvent_RepairsDriftedRecipe(t *testing.T) {
	svc, auditRepo, aggRepo := newTestAuditService()

	auditRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	aggRepo.On("GetRecipeAggregate", mock.Anything, "recipe-1").
		Return(&entity.RecipeAggregate{RecipeID: "recipe-1", AvgRating: 4.5, NumRatings: 2}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "recipe-1").
		Return(&entity.RecipeAggregate{RecipeID: "recipe-1", AvgRating: 3.0, NumRatings: 3}, nil)
	aggRepo.On("RepairAggregate", mock.Anything, "recipe-1", 3.0, int64(3)).Return(nil)

	err := svc.ProcessRatingEvent(context.Background(), &entity.RatingEvent{
		EventType: entity.EventRatingUpdated,
		RecipeID:  "recipe-1",
		UserID:    "user-1",
	})

	require.NoError(t, err)
	aggRepo.AssertExpectations(t)
}

func TestProcessRatingEvent_RecipeAlreadyDeleted(t *testing.T) {
	svc, auditRepo, aggRepo := newTestAuditService()

	// Событие пришло после удаления рецепта: журналируем без сверки
	auditRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	aggRepo.On("GetRecipeAggregate", mock.Anything, "recipe-gone").
		Return(nil, repository.ErrRecipeNotFound)

	err := svc.ProcessRatingEvent(context.Background(), &entity.RatingEvent{
		EventType: entity.EventRatingDeleted,
		RecipeID:  "recipe-gone",
		UserID:    "user-1",
	})

	require.NoError(t, err)
	aggRepo.AssertNotCalled(t, "ComputeAggregate", mock.Anything, mock.Anything)
}

func TestProcessRatingEvent_MissingRecipeID(t *testing.T) {
	svc, auditRepo, _ := newTestAuditService()

	err := svc.ProcessRatingEvent(context.Background(), &entity.RatingEvent{
		EventType: entity.EventRatingCreated,
	})

	assert.Error(t, err)
	auditRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessRatingEvent_SaveFails(t *testing.T) {
	svc, auditRepo, _ := newTestAuditService()

	auditRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := svc.ProcessRatingEvent(context.Background(), &entity.RatingEvent{
		EventType: entity.EventRatingDeleted,
		RecipeID:  "recipe-1",
	})

	assert.Error(t, err)
}

func TestSweepAggregates_NoDrift(t *testing.T) {
	svc, _, aggRepo := newTestAuditService()

	aggRepo.On("ListRecipeAggregates", mock.Anything).Return([]entity.RecipeAggregate{
		{RecipeID: "r1", AvgRating: 4.5, NumRatings: 2},
		{RecipeID: "r2", AvgRating: 0, NumRatings: 0},
	}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "r1").Return(&entity.RecipeAggregate{RecipeID: "r1", AvgRating: 4.5, NumRatings: 2}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "r2").Return(&entity.RecipeAggregate{RecipeID: "r2"}, nil)

	result, err := svc.SweepAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, 0, result.Repaired)
	assert.Equal(t, 0, result.Failed)
	aggRepo.AssertNotCalled(t, "RepairAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepAggregates_RepairsDriftedAverage(t *testing.T) {
	svc, _, aggRepo := newTestAuditService()

	aggRepo.On("ListRecipeAggregates", mock.Anything).Return([]entity.RecipeAggregate{
		{RecipeID: "r1", AvgRating: 4.5, NumRatings: 2},
	}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "r1").Return(&entity.RecipeAggregate{RecipeID: "r1", AvgRating: 3.0, NumRatings: 2}, nil)
	aggRepo.On("RepairAggregate", mock.Anything, "r1", 3.0, int64(2)).Return(nil)

	result, err := svc.SweepAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Repaired)
	aggRepo.AssertExpectations(t)
}

func TestSweepAggregates_RepairsDriftedCount(t *testing.T) {
	svc, _, aggRepo := newTestAuditService()

	// Среднее совпадает, но счетчик разъехался
	aggRepo.On("ListRecipeAggregates", mock.Anything).Return([]entity.RecipeAggregate{
		{RecipeID: "r1", AvgRating: 4.0, NumRatings: 3},
	}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "r1").Return(&entity.RecipeAggregate{RecipeID: "r1", AvgRating: 4.0, NumRatings: 4}, nil)
	aggRepo.On("RepairAggregate", mock.Anything, "r1", 4.0, int64(4)).Return(nil)

	result, err := svc.SweepAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Repaired)
}

func TestSweepAggregates_ToleratesRoundingError(t *testing.T) {
	svc, _, aggRepo := newTestAuditService()

	// Расхождение в пределах эпсилона не считается дрейфом
	aggRepo.On("ListRecipeAggregates", mock.Anything).Return([]entity.RecipeAggregate{
		{RecipeID: "r1", AvgRating: 4.0000000004, NumRatings: 5},
	}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "r1").Return(&entity.RecipeAggregate{RecipeID: "r1", AvgRating: 4.0, NumRatings: 5}, nil)

	result, err := svc.SweepAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Repaired)
	aggRepo.AssertNotCalled(t, "RepairAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepAggregates_ComputeErrorSkipsRecipe(t *testing.T) {
	svc, _, aggRepo := newTestAuditService()

	aggRepo.On("ListRecipeAggregates", mock.Anything).Return([]entity.RecipeAggregate{
		{RecipeID: "bad", AvgRating: 1.0, NumRatings: 1},
		{RecipeID: "good", AvgRating: 5.0, NumRatings: 1},
	}, nil)
	aggRepo.On("ComputeAggregate", mock.Anything, "bad").Return(nil, errors.New("cursor error"))
	aggRepo.On("ComputeAggregate", mock.Anything, "good").Return(&entity.RecipeAggregate{RecipeID: "good", AvgRating: 5.0, NumRatings: 1}, nil)

	result, err := svc.SweepAggregates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Repaired)
}

func TestSweepAggregates_ListFails(t *testing.T) {
	svc, _, aggRepo := newTestAuditService()

	aggRepo.On("ListRecipeAggregates", mock.Anything).Return(nil, errors.New("mongo down"))

	result, err := svc.SweepAggregates(context.Background())

	assert.Nil(t, result)
	assert.Error(t, err)
}
