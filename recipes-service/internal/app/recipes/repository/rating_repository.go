package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cookboard/pkg/metrics"
	"cookboard/recipes-service/internal/app/recipes/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrRatingNotFound  = errors.New("rating not found")
	ErrDuplicateRating = errors.New("rating already exists for this user and recipe")
)

type ratingRepository struct {
	collection *mongo.Collection
}

// NewRatingRepository создает репозиторий оценок
// Уникальный составной индекс (user_id, recipe_id) защищает от двойной оценки
// одним пользователем даже при конкурентных запросах
func NewRatingRepository(db *mongo.Database) RatingRepository {
	collection := db.Collection("ratings")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "recipe_id", Value: 1},
			},
			Options: options.Index().SetName("user_recipe_unique_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "recipe_id", Value: 1}},
			Options: options.Index().SetName("recipe_id_idx"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индексы могут уже существовать
		fmt.Printf("Warning: failed to create rating indexes: %v\n", err)
	}

	return &ratingRepository{
		collection: collection,
	}
}

// Create создает запись оценки
// Нарушение уникального индекса переводится в ErrDuplicateRating
func (r *ratingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "ratings")
	defer timer.ObserveDuration()

	rating.CreatedAt = time.Now()
	rating.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, rating)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRating
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create rating: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		rating.ID = oid
	}

	return nil
}

// Find выбирает оценки по опциональному фильтру (рецепт и/или пользователь)
func (r *ratingRepository) Find(ctx context.Context, filter entity.RatingFilter) ([]entity.Rating, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "ratings")
	defer timer.ObserveDuration()

	query := bson.M{}
	if filter.RecipeID != nil {
		query["recipe_id"] = *filter.RecipeID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []entity.Rating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	return ratings, nil
}

// GetByRecipeAndUser получает оценку конкретного пользователя для рецепта
func (r *ratingRepository) GetByRecipeAndUser(ctx context.Context, recipeID primitive.ObjectID, userID string) (*entity.Rating, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "ratings")
	defer timer.ObserveDuration()

	filter := bson.M{
		"recipe_id": recipeID,
		"user_id":   userID,
	}

	var rating entity.Rating
	err := r.collection.FindOne(ctx, filter).Decode(&rating)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRatingNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return &rating, nil
}

// UpdateValue меняет значение существующей оценки
func (r *ratingRepository) UpdateValue(ctx context.Context, id primitive.ObjectID, value float64) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "ratings")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"value":      value,
			"updated_at": time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update rating: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrRatingNotFound
	}

	return nil
}

// Delete удаляет запись оценки
func (r *ratingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "ratings")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrRatingNotFound
	}

	return nil
}
