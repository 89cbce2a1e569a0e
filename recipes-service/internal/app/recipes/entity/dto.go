package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// RatingRequest - тело POST и PUT /recipes/ratings
// Value объявлен указателем, чтобы отличать отсутствующее поле от явного нуля:
// оценка 0 валидна
type RatingRequest struct {
	RecipeID string   `json:"recipe" validate:"required"`
	Value    *float64 `json:"value" validate:"required"`
}

// RatingResponse - ответ на создание оценки: запись плюс обновленный агрегат
type RatingResponse struct {
	Rating     *Rating `json:"rating"`
	AvgRating  float64 `json:"avgRating"`
	NumRatings int64   `json:"numRatings"`
}

// AggregateResponse - обновленный агрегат после replace/remove
type AggregateResponse struct {
	AvgRating  float64 `json:"avgRating"`
	NumRatings int64   `json:"numRatings"`
}

// RatingFilter - фильтр выборки оценок; оба поля опциональны
type RatingFilter struct {
	RecipeID *primitive.ObjectID
	UserID   string
}

// CreateRecipeRequest - запрос на создание рецепта
// Агрегатные поля здесь отсутствуют: avgRating/numRatings всегда стартуют с (0, 0)
type CreateRecipeRequest struct {
	Name         string       `json:"name" validate:"required"`
	Description  string       `json:"description"`
	Instructions []string     `json:"instructions"`
	Ingredients  []Ingredient `json:"ingredients"`
	TimeToMake   *TimeToMake  `json:"timeToMake"`
	ServingInfo  *ServingInfo `json:"servingInfo"`
	Calories     float64      `json:"calories"`
}

// UpdateRecipeRequest - запрос на обновление рецепта
// Намеренно не содержит avgRating/numRatings: агрегат через PUT не меняется
type UpdateRecipeRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Instructions []string     `json:"instructions"`
	Ingredients  []Ingredient `json:"ingredients"`
	TimeToMake   *TimeToMake  `json:"timeToMake"`
	ServingInfo  *ServingInfo `json:"servingInfo"`
	Calories     float64      `json:"calories"`
}

// RecipeSearchParams - сырые query-параметры поиска до валидации
type RecipeSearchParams struct {
	Name       string
	Ingredient string
	RatingMin  string
	RatingMax  string
	Start      string
	Size       string
}

// RecipeSearchQuery - провалидированный поисковый запрос для репозитория
type RecipeSearchQuery struct {
	Name       string
	Ingredient string
	RatingMin  float64
	RatingMax  float64
	Start      int64
	Size       int64
}

// CreateCommentRequest - запрос на создание комментария
// Date обязательна и приходит от клиента в миллисекундах Unix-эпохи
type CreateCommentRequest struct {
	Text   string `json:"text" validate:"required,max=2000"`
	Date   *int64 `json:"date" validate:"required"`
	Parent string `json:"parent"`
}

// CommentListParams - сырые query-параметры списка комментариев
type CommentListParams struct {
	SortOn  string
	SortDir string
	After   string
	Before  string
}

// ErrorResponse - структурированный ответ об ошибке бизнес-логики
type ErrorResponse struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}
