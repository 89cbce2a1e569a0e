package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CreateComment(ctx context.Context, recipeIDHex string, userID string, req *entity.CreateCommentRequest) (*entity.Comment, error) {
	args := m.Called(ctx, recipeIDHex, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentService) GetComments(ctx context.Context, recipeIDHex string, params entity.CommentListParams) ([]entity.Comment, error) {
	args := m.Called(ctx, recipeIDHex, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Comment), args.Error(1)
}

func setupCommentRouter(svc service.CommentServiceInterface, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewCommentHandler(svc)

	authStub := func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}

	router.GET("/recipes/:recipeId/comments", h.GetComments)
	router.POST("/recipes/:recipeId/comments", authStub, h.CreateComment)

	return router
}

func TestCreateCommentHandler_Success(t *testing.T) {
	recipeID := primitive.NewObjectID()
	comment := &entity.Comment{ID: primitive.NewObjectID(), Text: "Tasty", RecipeID: recipeID, UserID: "user-1"}

	mockService := new(MockCommentService)
	mockService.On("CreateComment", mock.Anything, recipeID.Hex(), "user-1", mock.AnythingOfType("*entity.CreateCommentRequest")).Return(comment, nil)

	router := setupCommentRouter(mockService, "user-1")

	date := time.Now().UnixMilli()
	body, _ := json.Marshal(entity.CreateCommentRequest{Text: "Tasty", Date: &date})
	req, _ := http.NewRequest(http.MethodPost, "/recipes/"+recipeID.Hex()+"/comments", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateCommentHandler_MissingText(t *testing.T) {
	mockService := new(MockCommentService)
	router := setupCommentRouter(mockService, "user-1")

	req, _ := http.NewRequest(http.MethodPost, "/recipes/"+primitive.NewObjectID().Hex()+"/comments", bytes.NewBufferString(`{"date": 1000}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCommentsHandler_PassesSortParams(t *testing.T) {
	recipeID := primitive.NewObjectID()

	mockService := new(MockCommentService)
	mockService.On("GetComments", mock.Anything, recipeID.Hex(), mock.MatchedBy(func(p entity.CommentListParams) bool {
		return p.SortOn == "likes" && p.SortDir == "-1" && p.After == "1000"
	})).Return([]entity.Comment{}, nil)

	router := setupCommentRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/recipes/"+recipeID.Hex()+"/comments?sortOn=likes&sortDir=-1&after=1000", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetCommentsHandler_InvalidSortDir(t *testing.T) {
	recipeID := primitive.NewObjectID()

	mockService := new(MockCommentService)
	mockService.On("GetComments", mock.Anything, recipeID.Hex(), mock.Anything).Return(nil, service.NewValidationError("sortDir must be -1 or 1"))

	router := setupCommentRouter(mockService, "")

	req, _ := http.NewRequest(http.MethodGet, "/recipes/"+recipeID.Hex()+"/comments?sortDir=5", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp entity.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "sortDir must be -1 or 1", errResp.Error)
}
