package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) CreateRecipe(ctx context.Context, userID string, req *entity.CreateRecipeRequest) (*entity.Recipe, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, idHex string) (*entity.Recipe, error) {
	args := m.Called(ctx, idHex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetAllRecipes(ctx context.Context) ([]entity.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Recipe), args.Error(1)
}

func (m *MockRecipeService) SearchRecipes(ctx context.Context, params entity.RecipeSearchParams) ([]entity.Recipe, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, idHex string, userID string, req *entity.UpdateRecipeRequest) (*entity.Recipe, error) {
	args := m.Called(ctx, idHex, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, idHex string, userID string) error {
	args := m.Called(ctx, idHex, userID)
	return args.Error(0)
}

func setupRecipeRouter(svc service.RecipeServiceInterface, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewRecipeHandler(svc)

	authStub := func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}

	router.GET("/recipes", h.GetAllRecipes)
	router.GET("/recipes/search", h.SearchRecipes)
	router.GET("/recipes/:recipeId", h.GetRecipe)
	router.POST("/recipes", authStub, h.CreateRecipe)
	router.PUT("/recipes/:recipeId", authStub, h.UpdateRecipe)
	router.DELETE("/recipes/:recipeId", authStub, h.DeleteRecipe)

	return router
}

func TestCreateRecipeHandler_Success(t *testing.T) {
	recipe := &entity.Recipe{ID: primitive.NewObjectID(), Name: "Borscht", UserID: "user-1"}

	mockService := new(MockRecipeService)
	mockService.On("CreateRecipe", mock.Anything, "user-1", mock.AnythingOfType("*entity.CreateRecipeRequest")).Return(recipe, nil)

	router := setupRecipeRouter(mockService, "user-1")

	body, _ := json.Marshal(entity.CreateRecipeRequest{Name: "Borscht"})
	req, _ := http.NewRequest(http.MethodPost, "/recipes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRecipeHandler_MissingName(t *testing.T) {
	mockService := new(MockRecipeService)
	router := setupRecipeRouter(mockService, "user-1")

	req, _ := http.NewRequest(http.MethodPost, "/recipes", bytes.NewBufferString(`{"description": "no name"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRecipeHandler_Success(t *testing.T) {
	recipeID := primitive.NewObjectID()
	recipe := &entity.Recipe{ID: recipeID, Name: "Borscht", AvgRating: 4.5, NumRatings: 2}

	mockService := new(MockRecipeService)
	mockService.On("GetRecipe", mock.Anything, recipeID.Hex()).Return(recipe, nil)

	router := setupRecipeRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/recipes/"+recipeID.Hex(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4.5, got["avgRating"])
	assert.Equal(t, float64(2), got["numRatings"])
}

func TestGetRecipeHandler_NotFound(t *testing.T) {
	recipeID := primitive.NewObjectID()

	mockService := new(MockRecipeService)
	mockService.On("GetRecipe", mock.Anything, recipeID.Hex()).Return(nil, service.ErrRecipeNotFound)

	router := setupRecipeRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/recipes/"+recipeID.Hex(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "RecipeNotFoundError", errResp.Name)
}

func TestSearchRecipesHandler_PassesQueryParams(t *testing.T) {
	mockService := new(MockRecipeService)
	mockService.On("SearchRecipes", mock.Anything, mock.MatchedBy(func(p entity.RecipeSearchParams) bool {
		return p.Name == "borscht" && p.RatingMin == "3" && p.Start == "10" && p.Size == "5"
	})).Return([]entity.Recipe{}, nil)

	router := setupRecipeRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/recipes/search?name=borscht&ratingMin=3&start=10&size=5", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestSearchRecipesHandler_ValidationError(t *testing.T) {
	mockService := new(MockRecipeService)
	mockService.On("SearchRecipes", mock.Anything, mock.Anything).Return(nil, service.NewValidationError("Ratings must be between 0 and 5"))

	router := setupRecipeRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/recipes/search?ratingMin=9", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "ValidationError", errResp.Name)
	assert.Equal(t, "Ratings must be between 0 and 5", errResp.Error)
}

func TestUpdateRecipeHandler_Forbidden(t *testing.T) {
	recipeID := primitive.NewObjectID()

	mockService := new(MockRecipeService)
	mockService.On("UpdateRecipe", mock.Anything, recipeID.Hex(), "intruder", mock.Anything).Return(nil, service.ErrUnauthorized)

	router := setupRecipeRouter(mockService, "intruder")

	body, _ := json.Marshal(entity.UpdateRecipeRequest{Name: "Hacked"})
	req, _ := http.NewRequest(http.MethodPut, "/recipes/"+recipeID.Hex(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipeHandler_Success(t *testing.T) {
	recipeID := primitive.NewObjectID()

	mockService := new(MockRecipeService)
	mockService.On("DeleteRecipe", mock.Anything, recipeID.Hex(), "user-1").Return(nil)

	router := setupRecipeRouter(mockService, "user-1")

	req, _ := http.NewRequest(http.MethodDelete, "/recipes/"+recipeID.Hex(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
