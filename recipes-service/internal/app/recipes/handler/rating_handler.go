package handler

import (
	"net/http"

	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RatingHandler struct {
	ratingService service.RatingServiceInterface
	validator     *validator.Validate
}

func NewRatingHandler(ratingService service.RatingServiceInterface) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validator:     validator.New(),
	}
}

// AddRating обрабатывает POST /recipes/ratings
// Возвращает созданную оценку вместе с обновленным агрегатом
func (h *RatingHandler) AddRating(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req entity.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "ValidationError",
			Error: "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "ValidationError",
			Error: "recipe and value are required",
		})
		return
	}

	response, err := h.ratingService.AddRating(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ReplaceRating обрабатывает PUT /recipes/ratings
// Тело идентично POST, старое значение оценки сервер находит сам
func (h *RatingHandler) ReplaceRating(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req entity.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "ValidationError",
			Error: "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "ValidationError",
			Error: "recipe and value are required",
		})
		return
	}

	response, err := h.ratingService.ReplaceRating(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// RemoveRating обрабатывает DELETE /recipes/ratings/:recipeId
func (h *RatingHandler) RemoveRating(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	response, err := h.ratingService.RemoveRating(c.Request.Context(), userID, c.Param("recipeId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRatings обрабатывает GET /recipes/ratings?recipe=&userId=
func (h *RatingHandler) GetRatings(c *gin.Context) {
	ratings, err := h.ratingService.GetRatings(c.Request.Context(), c.Query("recipe"), c.Query("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if ratings == nil {
		ratings = []entity.Rating{}
	}
	c.JSON(http.StatusOK, ratings)
}
