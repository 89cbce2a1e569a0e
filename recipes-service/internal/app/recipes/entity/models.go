package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe - документ рецепта в MongoDB
// Поля AvgRating и NumRatings образуют агрегат оценок: их меняет только
// движок агрегации (и починка в worker-service), но не обычный PUT рецепта
type Recipe struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Instructions []string           `json:"instructions,omitempty" bson:"instructions,omitempty"`
	Ingredients  []Ingredient       `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	AvgRating    float64            `json:"avgRating" bson:"avg_rating"`
	NumRatings   int64              `json:"numRatings" bson:"num_ratings"`
	TimeToMake   *TimeToMake        `json:"timeToMake,omitempty" bson:"time_to_make,omitempty"`
	ServingInfo  *ServingInfo       `json:"servingInfo,omitempty" bson:"serving_info,omitempty"`
	Photos       []Photo            `json:"photos,omitempty" bson:"photos,omitempty"`
	Calories     float64            `json:"calories,omitempty" bson:"calories,omitempty"`
	UserID       string             `json:"userId" bson:"user_id"` // UUID владельца из Auth Service
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at"`
}

type Ingredient struct {
	Name   string  `json:"name" bson:"name"`
	Amount float64 `json:"amount,omitempty" bson:"amount,omitempty"`
	Unit   string  `json:"unit,omitempty" bson:"unit,omitempty"`
}

type TimeToMake struct {
	Value float64 `json:"value" bson:"value"`
	Unit  string  `json:"unit" bson:"unit"`
}

type ServingInfo struct {
	NumServed   float64 `json:"numServed,omitempty" bson:"num_served,omitempty"`
	Yield       float64 `json:"yield,omitempty" bson:"yield,omitempty"`
	ServingSize float64 `json:"servingSize,omitempty" bson:"serving_size,omitempty"`
	Unit        string  `json:"unit,omitempty" bson:"unit,omitempty"`
}

// Photo - метаданные фотографии рецепта; сами файлы живут в объектном
// хранилище и этим сервисом не загружаются
type Photo struct {
	Key     string `json:"key" bson:"key"`
	URL     string `json:"url" bson:"url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty"`
	Title   string `json:"title,omitempty" bson:"title,omitempty"`
}

// Rating - оценка рецепта одним пользователем
// Уникальный составной индекс (user_id, recipe_id) гарантирует не больше
// одной записи на пару пользователь-рецепт
type Rating struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Value      float64            `json:"value" bson:"value"` // ожидаемый диапазон 0-5
	UserID     string             `json:"userId" bson:"user_id"`
	RecipeID   primitive.ObjectID `json:"recipeId" bson:"recipe_id"`
	RecipeName string             `json:"recipeName,omitempty" bson:"recipe_name,omitempty"` // денормализованное имя рецепта
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Comment - комментарий к рецепту, поддерживает ответы через ParentID
type Comment struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Text      string              `json:"text" bson:"text"`
	RecipeID  primitive.ObjectID  `json:"recipeId" bson:"recipe_id"`
	UserID    string              `json:"userId" bson:"user_id"`
	ParentID  *primitive.ObjectID `json:"parent,omitempty" bson:"parent_id,omitempty"`
	Likes     int64               `json:"likes" bson:"likes"`
	Date      time.Time           `json:"date" bson:"date"` // дата, присланная клиентом
	CreatedAt time.Time           `json:"createdAt" bson:"created_at"`
}

// Типы событий об оценках, публикуемых в Kafka
const (
	EventRatingCreated = "RATING_CREATED"
	EventRatingUpdated = "RATING_UPDATED"
	EventRatingDeleted = "RATING_DELETED"
)

type RatingEvent struct {
	EventType  string    `json:"event_type"`
	RatingID   string    `json:"rating_id,omitempty"`
	RecipeID   string    `json:"recipe_id"`
	UserID     string    `json:"user_id"`
	Value      float64   `json:"value,omitempty"`
	AvgRating  float64   `json:"avg_rating"`
	NumRatings int64     `json:"num_ratings"`
	Timestamp  time.Time `json:"timestamp"`
}
