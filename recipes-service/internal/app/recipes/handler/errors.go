package handler

import (
	"errors"
	"net/http"

	"cookboard/pkg/logger"
	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError переводит ошибки бизнес-логики в HTTP ответы
// Формат тела {name, error} для всех ожидаемых клиентских ошибок
func respondServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "ValidationError",
			Error: validationErr.Message,
		})
	case errors.Is(err, service.ErrDuplicateRating):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "DuplicateRatingError",
			Error: err.Error(),
		})
	case errors.Is(err, service.ErrRatingNotFound):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "RatingNotFoundError",
			Error: err.Error(),
		})
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{
			Name:  "RecipeNotFoundError",
			Error: err.Error(),
		})
	case errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{
			Name:  "CommentNotFoundError",
			Error: err.Error(),
		})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// requireUserID достает ID пользователя, положенный в контекст AuthMiddleware
func requireUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
		return "", false
	}

	return userIDStr, true
}
