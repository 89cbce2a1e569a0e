package service

import (
	"context"

	"cookboard/recipes-service/internal/app/recipes/entity"
)

type RecipeServiceInterface interface {
	CreateRecipe(ctx context.Context, userID string, req *entity.CreateRecipeRequest) (*entity.Recipe, error)
	GetRecipe(ctx context.Context, idHex string) (*entity.Recipe, error)
	GetAllRecipes(ctx context.Context) ([]entity.Recipe, error)
	SearchRecipes(ctx context.Context, params entity.RecipeSearchParams) ([]entity.Recipe, error)
	UpdateRecipe(ctx context.Context, idHex string, userID string, req *entity.UpdateRecipeRequest) (*entity.Recipe, error)
	DeleteRecipe(ctx context.Context, idHex string, userID string) error
}

type RatingServiceInterface interface {
	AddRating(ctx context.Context, userID string, req *entity.RatingRequest) (*entity.RatingResponse, error)
	ReplaceRating(ctx context.Context, userID string, req *entity.RatingRequest) (*entity.AggregateResponse, error)
	RemoveRating(ctx context.Context, userID string, recipeIDHex string) (*entity.AggregateResponse, error)
	GetRatings(ctx context.Context, recipeIDHex, userID string) ([]entity.Rating, error)
}

type CommentServiceInterface interface {
	CreateComment(ctx context.Context, recipeIDHex string, userID string, req *entity.CreateCommentRequest) (*entity.Comment, error)
	GetComments(ctx context.Context, recipeIDHex string, params entity.CommentListParams) ([]entity.Comment, error)
}
