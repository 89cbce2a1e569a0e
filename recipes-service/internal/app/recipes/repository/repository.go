package repository

import (
	"context"

	"cookboard/recipes-service/internal/app/recipes/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipeRepository определяет методы для работы с рецептами в MongoDB
// UpdateAggregate - единственный путь записи avg_rating/num_ratings
type RecipeRepository interface {
	Create(ctx context.Context, recipe *entity.Recipe) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Recipe, error)
	GetAll(ctx context.Context) ([]entity.Recipe, error)
	Search(ctx context.Context, query entity.RecipeSearchQuery) ([]entity.Recipe, error)
	Update(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	UpdateAggregate(ctx context.Context, id primitive.ObjectID, avgRating float64, numRatings int64) error
}

// RatingRepository определяет методы для работы с записями оценок
type RatingRepository interface {
	Create(ctx context.Context, rating *entity.Rating) error
	Find(ctx context.Context, filter entity.RatingFilter) ([]entity.Rating, error)
	GetByRecipeAndUser(ctx context.Context, recipeID primitive.ObjectID, userID string) (*entity.Rating, error)
	UpdateValue(ctx context.Context, id primitive.ObjectID, value float64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CommentRepository определяет методы для работы с комментариями
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error)
	FindByRecipe(ctx context.Context, recipeID primitive.ObjectID, query CommentQuery) ([]entity.Comment, error)
}

// CommentQuery - провалидированные параметры сортировки и фильтрации комментариев
type CommentQuery struct {
	SortField string // "date" или "likes"
	SortDir   int    // 1 или -1
	After     *int64 // мс Unix-эпохи
	Before    *int64
}

// TxRunner выполняет unit of work в одной транзакции MongoDB:
// все операции репозиториев внутри fn видят снимок и коммитятся атомарно.
// Сессия живет в рамках одного вызова и никогда не разделяется между запросами
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
