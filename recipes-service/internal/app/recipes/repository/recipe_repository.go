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
	// Стандартные ошибки репозитория для обработки в service layer
	ErrRecipeNotFound = errors.New("recipe not found")
)

const serviceName = "recipes-service"

type recipeRepository struct {
	collection *mongo.Collection
}

// NewRecipeRepository создает репозиторий рецептов
// Создает индексы под поиск: по имени, по ингредиентам и по агрегату оценок
func NewRecipeRepository(db *mongo.Database) RecipeRepository {
	collection := db.Collection("recipes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_idx"),
		},
		{
			Keys:    bson.D{{Key: "ingredients.name", Value: 1}},
			Options: options.Index().SetName("ingredient_name_idx"),
		},
		{
			Keys:    bson.D{{Key: "avg_rating", Value: -1}},
			Options: options.Index().SetName("avg_rating_idx"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индексы могут уже существовать
		fmt.Printf("Warning: failed to create recipe indexes: %v\n", err)
	}

	return &recipeRepository{
		collection: collection,
	}
}

// Create создает новый рецепт в MongoDB
// Агрегат оценок всегда стартует с нуля независимо от входных данных
func (r *recipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "recipes")
	defer timer.ObserveDuration()

	recipe.AvgRating = 0
	recipe.NumRatings = 0
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, recipe)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		recipe.ID = oid
	}

	return nil
}

// GetByID получает рецепт по ID
func (r *recipeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Recipe, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "recipes")
	defer timer.ObserveDuration()

	var recipe entity.Recipe
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecipeNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return &recipe, nil
}

// GetAll получает все рецепты, новые первыми
func (r *recipeRepository) GetAll(ctx context.Context) ([]entity.Recipe, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "recipes")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []entity.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	return recipes, nil
}

// Search выполняет поиск рецептов по имени, ингредиенту и диапазону среднего рейтинга
// Пагинация через skip/limit, сортировка по среднему рейтингу по убыванию
func (r *recipeRepository) Search(ctx context.Context, query entity.RecipeSearchQuery) ([]entity.Recipe, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "recipes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"avg_rating": bson.M{"$gte": query.RatingMin, "$lte": query.RatingMax},
	}
	if query.Name != "" {
		filter["name"] = bson.M{"$regex": query.Name, "$options": "i"}
	}
	if query.Ingredient != "" {
		filter["ingredients.name"] = bson.M{"$regex": query.Ingredient, "$options": "i"}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "avg_rating", Value: -1}}).
		SetSkip(query.Start).
		SetLimit(query.Size)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []entity.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	return recipes, nil
}

// Update обновляет описательные поля рецепта
// Агрегатные поля намеренно не входят в $set: их меняет только UpdateAggregate
func (r *recipeRepository) Update(ctx context.Context, recipe *entity.Recipe) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "recipes")
	defer timer.ObserveDuration()

	recipe.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":         recipe.Name,
			"description":  recipe.Description,
			"instructions": recipe.Instructions,
			"ingredients":  recipe.Ingredients,
			"time_to_make": recipe.TimeToMake,
			"serving_info": recipe.ServingInfo,
			"calories":     recipe.Calories,
			"updated_at":   recipe.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": recipe.ID}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// Delete удаляет рецепт из MongoDB
func (r *recipeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "recipes")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// UpdateAggregate записывает новый агрегат оценок рецепта
// Вызывается только внутри транзакции вместе с записью в коллекцию ratings
func (r *recipeRepository) UpdateAggregate(ctx context.Context, id primitive.ObjectID, avgRating float64, numRatings int64) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "recipes")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"avg_rating":  avgRating,
			"num_ratings": numRatings,
			"updated_at":  time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update recipe aggregate: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrRecipeNotFound
	}

	return nil
}
