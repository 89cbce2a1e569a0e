package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cookboard/pkg/logger"
	"cookboard/pkg/metrics"
	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/infrastructure"
	"cookboard/recipes-service/internal/app/recipes/repository"
	"cookboard/recipes-service/internal/app/recipes/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingService управляет оценками и агрегатом среднего рейтинга
// Запись оценки и пересчет агрегата в документе рецепта выполняются
// в одной транзакции MongoDB, частичных состояний снаружи не видно
type RatingService struct {
	recipeRepo    repository.RecipeRepository
	ratingRepo    repository.RatingRepository
	txRunner      repository.TxRunner
	kafkaProducer infrastructure.MessagePublisher
	cache         util.RecipeCache
}

func NewRatingService(
	recipeRepo repository.RecipeRepository,
	ratingRepo repository.RatingRepository,
	txRunner repository.TxRunner,
	kafkaProducer infrastructure.MessagePublisher,
	cache util.RecipeCache,
) *RatingService {
	return &RatingService{
		recipeRepo:    recipeRepo,
		ratingRepo:    ratingRepo,
		txRunner:      txRunner,
		kafkaProducer: kafkaProducer,
		cache:         cache,
	}
}

// AddRating добавляет новую оценку рецепту
// 1. В транзакции: читает рецепт, создает запись оценки, пересчитывает агрегат
// 2. После коммита: инвалидирует кеш и публикует событие в Kafka
func (s *RatingService) AddRating(ctx context.Context, userID string, req *entity.RatingRequest) (*entity.RatingResponse, error) {
	recipeID, value, err := s.validateRatingRequest(req)
	if err != nil {
		return nil, err
	}

	var rating *entity.Rating
	var newAvg float64
	var newNum int64

	err = s.txRunner.WithTransaction(ctx, func(txCtx context.Context) error {
		recipe, err := s.recipeRepo.GetByID(txCtx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to get recipe: %w", err)
		}

		rating = &entity.Rating{
			Value:      value,
			UserID:     userID,
			RecipeID:   recipeID,
			RecipeName: recipe.Name,
		}

		if err := s.ratingRepo.Create(txCtx, rating); err != nil {
			if errors.Is(err, repository.ErrDuplicateRating) {
				return ErrDuplicateRating
			}
			return fmt.Errorf("failed to create rating: %w", err)
		}

		newAvg, newNum = addToAggregate(recipe.AvgRating, recipe.NumRatings, value)

		if err := s.recipeRepo.UpdateAggregate(txCtx, recipeID, newAvg, newNum); err != nil {
			return fmt.Errorf("failed to update aggregate: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RatingMutations.WithLabelValues("add").Inc()
	metrics.RatingValues.Observe(value)
	s.afterAggregateChange(ctx, entity.EventRatingCreated, rating, newAvg, newNum)

	return &entity.RatingResponse{
		Rating:     rating,
		AvgRating:  newAvg,
		NumRatings: newNum,
	}, nil
}

// ReplaceRating заменяет существующую оценку пользователя новым значением
// Старое значение читается внутри транзакции, клиент его не присылает
func (s *RatingService) ReplaceRating(ctx context.Context, userID string, req *entity.RatingRequest) (*entity.AggregateResponse, error) {
	recipeID, value, err := s.validateRatingRequest(req)
	if err != nil {
		return nil, err
	}

	var rating *entity.Rating
	var newAvg float64
	var newNum int64

	err = s.txRunner.WithTransaction(ctx, func(txCtx context.Context) error {
		recipe, err := s.recipeRepo.GetByID(txCtx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to get recipe: %w", err)
		}

		rating, err = s.ratingRepo.GetByRecipeAndUser(txCtx, recipeID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrRatingNotFound) {
				return ErrRatingNotFound
			}
			return fmt.Errorf("failed to get rating: %w", err)
		}

		newAvg, newNum = replaceInAggregate(recipe.AvgRating, recipe.NumRatings, rating.Value, value)

		if err := s.ratingRepo.UpdateValue(txCtx, rating.ID, value); err != nil {
			return fmt.Errorf("failed to update rating: %w", err)
		}

		if err := s.recipeRepo.UpdateAggregate(txCtx, recipeID, newAvg, newNum); err != nil {
			return fmt.Errorf("failed to update aggregate: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	rating.Value = value
	metrics.RatingMutations.WithLabelValues("replace").Inc()
	metrics.RatingValues.Observe(value)
	s.afterAggregateChange(ctx, entity.EventRatingUpdated, rating, newAvg, newNum)

	return &entity.AggregateResponse{
		AvgRating:  newAvg,
		NumRatings: newNum,
	}, nil
}

// RemoveRating удаляет оценку пользователя и убирает ее из агрегата
func (s *RatingService) RemoveRating(ctx context.Context, userID string, recipeIDHex string) (*entity.AggregateResponse, error) {
	recipeID, err := primitive.ObjectIDFromHex(recipeIDHex)
	if err != nil {
		return nil, NewValidationError("recipe must be a valid id")
	}

	var rating *entity.Rating
	var newAvg float64
	var newNum int64

	err = s.txRunner.WithTransaction(ctx, func(txCtx context.Context) error {
		recipe, err := s.recipeRepo.GetByID(txCtx, recipeID)
		if err != nil {
			if errors.Is(err, repository.ErrRecipeNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to get recipe: %w", err)
		}

		rating, err = s.ratingRepo.GetByRecipeAndUser(txCtx, recipeID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrRatingNotFound) {
				return ErrRatingNotFound
			}
			return fmt.Errorf("failed to get rating: %w", err)
		}

		newAvg, newNum = removeFromAggregate(recipe.AvgRating, recipe.NumRatings, rating.Value)

		if err := s.ratingRepo.Delete(txCtx, rating.ID); err != nil {
			return fmt.Errorf("failed to delete rating: %w", err)
		}

		if err := s.recipeRepo.UpdateAggregate(txCtx, recipeID, newAvg, newNum); err != nil {
			return fmt.Errorf("failed to update aggregate: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RatingMutations.WithLabelValues("remove").Inc()
	s.afterAggregateChange(ctx, entity.EventRatingDeleted, rating, newAvg, newNum)

	return &entity.AggregateResponse{
		AvgRating:  newAvg,
		NumRatings: newNum,
	}, nil
}

// GetRatings возвращает оценки по опциональному фильтру рецепта и пользователя
func (s *RatingService) GetRatings(ctx context.Context, recipeIDHex, userID string) ([]entity.Rating, error) {
	filter := entity.RatingFilter{UserID: userID}

	if recipeIDHex != "" {
		recipeID, err := primitive.ObjectIDFromHex(recipeIDHex)
		if err != nil {
			return nil, NewValidationError("recipe must be a valid id")
		}
		filter.RecipeID = &recipeID
	}

	ratings, err := s.ratingRepo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}

	return ratings, nil
}

// validateRatingRequest проверяет тело запроса оценки
// Значение должно присутствовать (ноль валиден) и лежать в диапазоне 0-5
func (s *RatingService) validateRatingRequest(req *entity.RatingRequest) (primitive.ObjectID, float64, error) {
	if req.RecipeID == "" || req.Value == nil {
		return primitive.NilObjectID, 0, NewValidationError("recipe and value are required")
	}

	value := *req.Value
	if value < 0 || value > 5 {
		return primitive.NilObjectID, 0, NewValidationError("Ratings must be between 0 and 5")
	}

	recipeID, err := primitive.ObjectIDFromHex(req.RecipeID)
	if err != nil {
		return primitive.NilObjectID, 0, NewValidationError("recipe must be a valid id")
	}

	return recipeID, value, nil
}

// afterAggregateChange выполняет действия после коммита транзакции:
// сбрасывает кеш рецепта и публикует событие в Kafka
// Ошибки здесь логируются, но не откатывают уже закоммиченное изменение
func (s *RatingService) afterAggregateChange(ctx context.Context, eventType string, rating *entity.Rating, avgRating float64, numRatings int64) {
	recipeIDHex := rating.RecipeID.Hex()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, recipeIDHex); err != nil {
			logger.Error().Err(err).Str("recipe_id", recipeIDHex).Msg("failed to invalidate recipe cache")
		}
	}

	event := entity.RatingEvent{
		EventType:  eventType,
		RatingID:   rating.ID.Hex(),
		RecipeID:   recipeIDHex,
		UserID:     rating.UserID,
		Value:      rating.Value,
		AvgRating:  avgRating,
		NumRatings: numRatings,
		Timestamp:  time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal rating event")
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, recipeIDHex, eventData); err != nil {
		logger.Error().Err(err).Str("recipe_id", recipeIDHex).Msg("failed to publish rating event")
	}
}
