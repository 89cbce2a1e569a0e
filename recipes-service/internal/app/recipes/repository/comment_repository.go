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
	ErrCommentNotFound = errors.New("comment not found")
)

type commentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository создает репозиторий комментариев
func NewCommentRepository(db *mongo.Database) CommentRepository {
	collection := db.Collection("comments")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "recipe_id", Value: 1},
			{Key: "date", Value: -1},
		},
		Options: options.Index().SetName("recipe_date_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		fmt.Printf("Warning: failed to create comment index: %v\n", err)
	}

	return &commentRepository{
		collection: collection,
	}
}

// Create создает комментарий
func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "comments")
	defer timer.ObserveDuration()

	comment.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create comment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}

	return nil
}

// GetByID получает комментарий по ID
func (r *commentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Comment, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "comments")
	defer timer.ObserveDuration()

	var comment entity.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

// FindByRecipe выбирает комментарии к рецепту с сортировкой и фильтром по дате
func (r *commentRepository) FindByRecipe(ctx context.Context, recipeID primitive.ObjectID, query CommentQuery) ([]entity.Comment, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, "comments")
	defer timer.ObserveDuration()

	filter := bson.M{"recipe_id": recipeID}

	dateRange := bson.M{}
	if query.After != nil {
		dateRange["$gt"] = time.UnixMilli(*query.After)
	}
	if query.Before != nil {
		dateRange["$lt"] = time.UnixMilli(*query.Before)
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: query.SortField, Value: query.SortDir}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []entity.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	return comments, nil
}
