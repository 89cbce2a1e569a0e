package handler

import (
	"net/http"

	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RecipeHandler struct {
	recipeService service.RecipeServiceInterface
	validator     *validator.Validate
}

func NewRecipeHandler(recipeService service.RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validator:     validator.New(),
	}
}

// CreateRecipe обрабатывает POST /recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req entity.CreateRecipeRequest
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
			Error: "name is required",
		})
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// GetRecipe обрабатывает GET /recipes/:recipeId
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("recipeId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// GetAllRecipes обрабатывает GET /recipes
func (h *RecipeHandler) GetAllRecipes(c *gin.Context) {
	recipes, err := h.recipeService.GetAllRecipes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if recipes == nil {
		recipes = []entity.Recipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

// SearchRecipes обрабатывает GET /recipes/search
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	params := entity.RecipeSearchParams{
		Name:       c.Query("name"),
		Ingredient: c.Query("ingredient"),
		RatingMin:  c.Query("ratingMin"),
		RatingMax:  c.Query("ratingMax"),
		Start:      c.Query("start"),
		Size:       c.Query("size"),
	}

	recipes, err := h.recipeService.SearchRecipes(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if recipes == nil {
		recipes = []entity.Recipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

// UpdateRecipe обрабатывает PUT /recipes/:recipeId
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req entity.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Name:  "ValidationError",
			Error: "Invalid request body",
		})
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), c.Param("recipeId"), userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe обрабатывает DELETE /recipes/:recipeId
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("recipeId"), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
