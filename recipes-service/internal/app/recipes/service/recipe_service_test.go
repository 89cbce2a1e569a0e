package service

import (
	"context"
	"errors"
	"testing"

	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/repository"
	"cookboard/recipes-service/internal/app/recipes/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateRecipe_Success(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	svc := NewRecipeService(recipeRepo, nil)

	ctx := context.Background()
	req := &entity.CreateRecipeRequest{
		Name:        "Borscht",
		Ingredients: []entity.Ingredient{{Name: "beetroot", Amount: 2}},
	}

	recipeRepo.On("Create", ctx, mock.AnythingOfType("*entity.Recipe")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Recipe).ID = primitive.NewObjectID()
	})

	result, err := svc.CreateRecipe(ctx, "user-1", req)

	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, "Borscht", result.Name)
}

func TestGetRecipe_CacheHit(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	cache := new(mocks.MockRecipeCache)
	svc := NewRecipeService(recipeRepo, cache)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	cached := &entity.Recipe{ID: recipeID, Name: "Cached Borscht"}

	cache.On("Get", ctx, recipeID.Hex()).Return(cached, nil)

	result, err := svc.GetRecipe(ctx, recipeID.Hex())

	require.NoError(t, err)
	assert.Equal(t, "Cached Borscht", result.Name)
	recipeRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetRecipe_CacheMissFallsThrough(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	cache := new(mocks.MockRecipeCache)
	svc := NewRecipeService(recipeRepo, cache)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	recipe := &entity.Recipe{ID: recipeID, Name: "Borscht"}

	cache.On("Get", ctx, recipeID.Hex()).Return(nil, nil)
	recipeRepo.On("GetByID", ctx, recipeID).Return(recipe, nil)
	cache.On("Set", ctx, recipe).Return(nil)

	result, err := svc.GetRecipe(ctx, recipeID.Hex())

	require.NoError(t, err)
	assert.Equal(t, recipeID, result.ID)
	cache.AssertCalled(t, "Set", ctx, recipe)
}

func TestGetRecipe_CacheErrorDoesNotBreakRead(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	cache := new(mocks.MockRecipeCache)
	svc := NewRecipeService(recipeRepo, cache)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	recipe := &entity.Recipe{ID: recipeID, Name: "Borscht"}

	cache.On("Get", ctx, recipeID.Hex()).Return(nil, errors.New("redis down"))
	recipeRepo.On("GetByID", ctx, recipeID).Return(recipe, nil)
	cache.On("Set", ctx, recipe).Return(errors.New("redis down"))

	result, err := svc.GetRecipe(ctx, recipeID.Hex())

	require.NoError(t, err)
	assert.Equal(t, recipeID, result.ID)
}

func TestGetRecipe_NotFound(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	svc := NewRecipeService(recipeRepo, nil)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()

	recipeRepo.On("GetByID", ctx, recipeID).Return(nil, repository.ErrRecipeNotFound)

	result, err := svc.GetRecipe(ctx, recipeID.Hex())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestGetRecipe_InvalidID(t *testing.T) {
	svc := NewRecipeService(new(mocks.MockRecipeRepository), nil)

	result, err := svc.GetRecipe(context.Background(), "nope")

	assert.Nil(t, result)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestSearchRecipes_Defaults(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	svc := NewRecipeService(recipeRepo, nil)

	ctx := context.Background()
	recipeRepo.On("Search", ctx, mock.MatchedBy(func(q entity.RecipeSearchQuery) bool {
		return q.RatingMin == 0 && q.RatingMax == 5 && q.Start == 0 && q.Size == 50
	})).Return([]entity.Recipe{}, nil)

	_, err := svc.SearchRecipes(ctx, entity.RecipeSearchParams{})

	require.NoError(t, err)
	recipeRepo.AssertExpectations(t)
}

func TestSearchRecipes_RatingValidation(t *testing.T) {
	svc := NewRecipeService(new(mocks.MockRecipeRepository), nil)
	ctx := context.Background()

	cases := []struct {
		params  entity.RecipeSearchParams
		message string
	}{
		{entity.RecipeSearchParams{RatingMin: "abc"}, "Ratings must be a number"},
		{entity.RecipeSearchParams{RatingMax: "abc"}, "Ratings must be a number"},
		{entity.RecipeSearchParams{RatingMin: "-1"}, "Ratings must be between 0 and 5"},
		{entity.RecipeSearchParams{RatingMax: "6"}, "Ratings must be between 0 and 5"},
		{entity.RecipeSearchParams{Start: "-5"}, "start must be a positive number"},
		{entity.RecipeSearchParams{Start: "abc"}, "start must be a positive number"},
	}

	for _, tc := range cases {
		result, err := svc.SearchRecipes(ctx, tc.params)

		assert.Nil(t, result)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, tc.message, validationErr.Message)
	}
}

func TestUpdateRecipe_Success(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	cache := new(mocks.MockRecipeCache)
	svc := NewRecipeService(recipeRepo, cache)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	existing := &entity.Recipe{ID: recipeID, Name: "Old name", UserID: "user-1", AvgRating: 4.2, NumRatings: 10}

	recipeRepo.On("GetByID", ctx, recipeID).Return(existing, nil)
	recipeRepo.On("Update", ctx, mock.AnythingOfType("*entity.Recipe")).Return(nil)
	cache.On("Invalidate", ctx, recipeID.Hex()).Return(nil)

	result, err := svc.UpdateRecipe(ctx, recipeID.Hex(), "user-1", &entity.UpdateRecipeRequest{Name: "New name"})

	require.NoError(t, err)
	assert.Equal(t, "New name", result.Name)
	// Агрегат не трогаем при обычном обновлении
	assert.InDelta(t, 4.2, result.AvgRating, 1e-9)
	assert.Equal(t, int64(10), result.NumRatings)
	cache.AssertCalled(t, "Invalidate", ctx, recipeID.Hex())
}

func TestUpdateRecipe_NotOwner(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	svc := NewRecipeService(recipeRepo, nil)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	existing := &entity.Recipe{ID: recipeID, UserID: "owner"}

	recipeRepo.On("GetByID", ctx, recipeID).Return(existing, nil)

	result, err := svc.UpdateRecipe(ctx, recipeID.Hex(), "intruder", &entity.UpdateRecipeRequest{Name: "Hacked"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteRecipe_Success(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	cache := new(mocks.MockRecipeCache)
	svc := NewRecipeService(recipeRepo, cache)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	existing := &entity.Recipe{ID: recipeID, UserID: "user-1"}

	recipeRepo.On("GetByID", ctx, recipeID).Return(existing, nil)
	recipeRepo.On("Delete", ctx, recipeID).Return(nil)
	cache.On("Invalidate", ctx, recipeID.Hex()).Return(nil)

	err := svc.DeleteRecipe(ctx, recipeID.Hex(), "user-1")

	require.NoError(t, err)
}

func TestDeleteRecipe_NotOwner(t *testing.T) {
	recipeRepo := new(mocks.MockRecipeRepository)
	svc := NewRecipeService(recipeRepo, nil)

	ctx := context.Background()
	recipeID := primitive.NewObjectID()
	existing := &entity.Recipe{ID: recipeID, UserID: "owner"}

	recipeRepo.On("GetByID", ctx, recipeID).Return(existing, nil)

	err := svc.DeleteRecipe(ctx, recipeID.Hex(), "intruder")

	assert.ErrorIs(t, err, ErrUnauthorized)
	recipeRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
