package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cookboard/pkg/logger"
	"cookboard/pkg/metrics"
)

// SetupRoutes настраивает маршруты сервиса рецептов
// Статические сегменты (/search, /ratings) объявлены раньше wildcard :recipeId,
// имя параметра :recipeId одинаково на всех уровнях из-за ограничений httprouter
func SetupRoutes(
	recipeHandler *RecipeHandler,
	ratingHandler *RatingHandler,
	commentHandler *CommentHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("recipes-service"))
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "recipes-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	recipes := router.Group("/recipes")
	{
		// Публичные чтения
		recipes.GET("", recipeHandler.GetAllRecipes)
		recipes.GET("/search", recipeHandler.SearchRecipes)
		recipes.GET("/ratings", ratingHandler.GetRatings)
		recipes.GET("/:recipeId", recipeHandler.GetRecipe)
		recipes.GET("/:recipeId/comments", commentHandler.GetComments)

		// Мутации требуют валидного токена
		protected := recipes.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", recipeHandler.CreateRecipe)
			protected.PUT("/:recipeId", recipeHandler.UpdateRecipe)
			protected.DELETE("/:recipeId", recipeHandler.DeleteRecipe)

			protected.POST("/ratings", ratingHandler.AddRating)
			protected.PUT("/ratings", ratingHandler.ReplaceRating)
			protected.DELETE("/ratings/:recipeId", ratingHandler.RemoveRating)

			protected.POST("/:recipeId/comments", commentHandler.CreateComment)
		}
	}

	return router
}
