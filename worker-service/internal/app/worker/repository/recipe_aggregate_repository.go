package repository

import (
	"context"
	"fmt"
	"time"

	"cookboard/worker-service/internal/app/worker/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recipeAggregateRepository читает и чинит агрегаты оценок в MongoDB recipes-service
type recipeAggregateRepository struct {
	recipes *mongo.Collection
	ratings *mongo.Collection
}

// NewRecipeAggregateRepository создает репозиторий поверх базы recipes-service
func NewRecipeAggregateRepository(db *mongo.Database) AggregateRepository {
	return &recipeAggregateRepository{
		recipes: db.Collection("recipes"),
		ratings: db.Collection("ratings"),
	}
}

// ListRecipeAggregates возвращает сохраненные агрегаты всех рецептов
func (r *recipeAggregateRepository) ListRecipeAggregates(ctx context.Context) ([]entity.RecipeAggregate, error) {
	opts := options.Find().SetProjection(bson.M{"avg_rating": 1, "num_ratings": 1})

	cursor, err := r.recipes.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID         primitive.ObjectID `bson:"_id"`
		AvgRating  float64            `bson:"avg_rating"`
		NumRatings int64              `bson:"num_ratings"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	aggregates := make([]entity.RecipeAggregate, 0, len(docs))
	for _, doc := range docs {
		aggregates = append(aggregates, entity.RecipeAggregate{
			RecipeID:   doc.ID.Hex(),
			AvgRating:  doc.AvgRating,
			NumRatings: doc.NumRatings,
		})
	}

	return aggregates, nil
}

// GetRecipeAggregate возвращает сохраненный агрегат одного рецепта
func (r *recipeAggregateRepository) GetRecipeAggregate(ctx context.Context, recipeID string) (*entity.RecipeAggregate, error) {
	objectID, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe id: %w", err)
	}

	opts := options.FindOne().SetProjection(bson.M{"avg_rating": 1, "num_ratings": 1})

	var doc struct {
		AvgRating  float64 `bson:"avg_rating"`
		NumRatings int64   `bson:"num_ratings"`
	}
	err = r.recipes.FindOne(ctx, bson.M{"_id": objectID}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe aggregate: %w", err)
	}

	return &entity.RecipeAggregate{
		RecipeID:   recipeID,
		AvgRating:  doc.AvgRating,
		NumRatings: doc.NumRatings,
	}, nil
}

// ComputeAggregate пересчитывает агрегат рецепта по коллекции оценок
func (r *recipeAggregateRepository) ComputeAggregate(ctx context.Context, recipeID string) (*entity.RecipeAggregate, error) {
	objectID, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe id: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"recipe_id": objectID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"avg_rating":  bson.M{"$avg": "$value"},
			"num_ratings": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.ratings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to compute aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		AvgRating  float64 `bson:"avg_rating"`
		NumRatings int64   `bson:"num_ratings"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode aggregate: %w", err)
	}

	// Нет ни одной оценки: агрегат должен быть нулевым
	if len(results) == 0 {
		return &entity.RecipeAggregate{RecipeID: recipeID}, nil
	}

	return &entity.RecipeAggregate{
		RecipeID:   recipeID,
		AvgRating:  results[0].AvgRating,
		NumRatings: results[0].NumRatings,
	}, nil
}

// RepairAggregate перезаписывает сохраненный агрегат рецепта
func (r *recipeAggregateRepository) RepairAggregate(ctx context.Context, recipeID string, avgRating float64, numRatings int64) error {
	objectID, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return fmt.Errorf("invalid recipe id: %w", err)
	}

	result, err := r.recipes.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{
			"avg_rating":  avgRating,
			"num_ratings": numRatings,
			"updated_at":  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to repair aggregate: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrRecipeNotFound
	}

	return nil
}
