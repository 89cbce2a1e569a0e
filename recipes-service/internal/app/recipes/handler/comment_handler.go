package handler

import (
	"net/http"

	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CommentHandler struct {
	commentService service.CommentServiceInterface
	validator      *validator.Validate
}

func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validator:      validator.New(),
	}
}

// CreateComment обрабатывает POST /recipes/:recipeId/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req entity.CreateCommentRequest
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
			Error: "text and date are required",
		})
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), c.Param("recipeId"), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetComments обрабатывает GET /recipes/:recipeId/comments
func (h *CommentHandler) GetComments(c *gin.Context) {
	params := entity.CommentListParams{
		SortOn:  c.Query("sortOn"),
		SortDir: c.Query("sortDir"),
		After:   c.Query("after"),
		Before:  c.Query("before"),
	}

	comments, err := h.commentService.GetComments(c.Request.Context(), c.Param("recipeId"), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if comments == nil {
		comments = []entity.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}
