package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cookboard/pkg/logger"
	"cookboard/pkg/metrics"
	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/repository"
	"cookboard/recipes-service/internal/app/recipes/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultSearchSize = 50

// RecipeService обрабатывает бизнес-логику рецептов
// Чтение по ID идет через кеш Redis, запись инвалидирует кеш
type RecipeService struct {
	recipeRepo repository.RecipeRepository
	cache      util.RecipeCache
}

func NewRecipeService(recipeRepo repository.RecipeRepository, cache util.RecipeCache) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		cache:      cache,
	}
}

// CreateRecipe создает новый рецепт с нулевым агрегатом оценок
func (s *RecipeService) CreateRecipe(ctx context.Context, userID string, req *entity.CreateRecipeRequest) (*entity.Recipe, error) {
	recipe := &entity.Recipe{
		Name:         req.Name,
		Description:  req.Description,
		Instructions: req.Instructions,
		Ingredients:  req.Ingredients,
		TimeToMake:   req.TimeToMake,
		ServingInfo:  req.ServingInfo,
		Calories:     req.Calories,
		UserID:       userID,
	}

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	metrics.RecipesCreated.Inc()
	return recipe, nil
}

// GetRecipe получает рецепт по ID через кеш
func (s *RecipeService) GetRecipe(ctx context.Context, idHex string) (*entity.Recipe, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, NewValidationError("recipe must be a valid id")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, idHex)
		if err != nil {
			// Недоступный Redis не должен ломать чтение, идем в MongoDB
			logger.Warn().Err(err).Str("recipe_id", idHex).Msg("recipe cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, recipe); err != nil {
			logger.Warn().Err(err).Str("recipe_id", idHex).Msg("recipe cache write failed")
		}
	}

	return recipe, nil
}

// GetAllRecipes возвращает все рецепты
func (s *RecipeService) GetAllRecipes(ctx context.Context) ([]entity.Recipe, error) {
	recipes, err := s.recipeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}
	return recipes, nil
}

// SearchRecipes выполняет поиск с валидацией query-параметров
func (s *RecipeService) SearchRecipes(ctx context.Context, params entity.RecipeSearchParams) ([]entity.Recipe, error) {
	query, err := buildSearchQuery(params)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipeRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe обновляет описательные поля рецепта с проверкой владельца
// Агрегат оценок через этот путь не меняется
func (s *RecipeService) UpdateRecipe(ctx context.Context, idHex string, userID string, req *entity.UpdateRecipeRequest) (*entity.Recipe, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, NewValidationError("recipe must be a valid id")
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if recipe.UserID != userID {
		return nil, ErrUnauthorized
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Description != "" {
		recipe.Description = req.Description
	}
	if req.Instructions != nil {
		recipe.Instructions = req.Instructions
	}
	if req.Ingredients != nil {
		recipe.Ingredients = req.Ingredients
	}
	if req.TimeToMake != nil {
		recipe.TimeToMake = req.TimeToMake
	}
	if req.ServingInfo != nil {
		recipe.ServingInfo = req.ServingInfo
	}
	if req.Calories > 0 {
		recipe.Calories = req.Calories
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.invalidateCache(ctx, idHex)
	return recipe, nil
}

// DeleteRecipe удаляет рецепт с проверкой владельца
func (s *RecipeService) DeleteRecipe(ctx context.Context, idHex string, userID string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return NewValidationError("recipe must be a valid id")
	}

	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to get recipe: %w", err)
	}

	if recipe.UserID != userID {
		return ErrUnauthorized
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.invalidateCache(ctx, idHex)
	return nil
}

func (s *RecipeService) invalidateCache(ctx context.Context, idHex string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, idHex); err != nil {
		logger.Error().Err(err).Str("recipe_id", idHex).Msg("failed to invalidate recipe cache")
	}
}

// buildSearchQuery валидирует сырые параметры поиска
// Диапазон рейтинга по умолчанию 0-5, размер страницы по умолчанию 50
func buildSearchQuery(params entity.RecipeSearchParams) (entity.RecipeSearchQuery, error) {
	query := entity.RecipeSearchQuery{
		Name:       params.Name,
		Ingredient: params.Ingredient,
		RatingMin:  0,
		RatingMax:  5,
		Start:      0,
		Size:       defaultSearchSize,
	}

	if params.RatingMin != "" {
		v, err := strconv.ParseFloat(params.RatingMin, 64)
		if err != nil {
			return query, NewValidationError("Ratings must be a number")
		}
		if v < 0 || v > 5 {
			return query, NewValidationError("Ratings must be between 0 and 5")
		}
		query.RatingMin = v
	}

	if params.RatingMax != "" {
		v, err := strconv.ParseFloat(params.RatingMax, 64)
		if err != nil {
			return query, NewValidationError("Ratings must be a number")
		}
		if v < 0 || v > 5 {
			return query, NewValidationError("Ratings must be between 0 and 5")
		}
		query.RatingMax = v
	}

	if params.Start != "" {
		v, err := strconv.ParseInt(params.Start, 10, 64)
		if err != nil || v < 0 {
			return query, NewValidationError("start must be a positive number")
		}
		query.Start = v
	}

	if params.Size != "" {
		v, err := strconv.ParseInt(params.Size, 10, 64)
		if err != nil || v <= 0 {
			return query, NewValidationError("size must be a positive number")
		}
		query.Size = v
	}

	return query, nil
}
