package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cookboard/pkg/metrics"
	"cookboard/recipes-service/internal/app/recipes/entity"
	"cookboard/recipes-service/internal/app/recipes/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentService обрабатывает бизнес-логику комментариев к рецептам
type CommentService struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
}

func NewCommentService(commentRepo repository.CommentRepository, recipeRepo repository.RecipeRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
	}
}

// CreateComment создает комментарий к рецепту
// Рецепт и родительский комментарий (если указан) должны существовать
func (s *CommentService) CreateComment(ctx context.Context, recipeIDHex string, userID string, req *entity.CreateCommentRequest) (*entity.Comment, error) {
	recipeID, err := primitive.ObjectIDFromHex(recipeIDHex)
	if err != nil {
		return nil, NewValidationError("recipe must be a valid id")
	}

	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	comment := &entity.Comment{
		Text:     req.Text,
		RecipeID: recipeID,
		UserID:   userID,
		Date:     time.UnixMilli(*req.Date),
	}

	if req.Parent != "" {
		parentID, err := primitive.ObjectIDFromHex(req.Parent)
		if err != nil {
			return nil, NewValidationError("parent must be a valid id")
		}

		parent, err := s.commentRepo.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, fmt.Errorf("failed to get parent comment: %w", err)
		}
		// Ответ должен ссылаться на комментарий того же рецепта
		if parent.RecipeID != recipeID {
			return nil, NewValidationError("parent comment belongs to another recipe")
		}

		comment.ParentID = &parentID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	metrics.CommentsCreated.Inc()
	return comment, nil
}

// GetComments возвращает комментарии к рецепту с сортировкой и фильтром по дате
func (s *CommentService) GetComments(ctx context.Context, recipeIDHex string, params entity.CommentListParams) ([]entity.Comment, error) {
	recipeID, err := primitive.ObjectIDFromHex(recipeIDHex)
	if err != nil {
		return nil, NewValidationError("recipe must be a valid id")
	}

	query, err := buildCommentQuery(params)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByRecipe(ctx, recipeID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	return comments, nil
}

// buildCommentQuery валидирует параметры сортировки и фильтрации
// По лайкам сортируем по возрастанию по умолчанию, по дате - новые первыми
func buildCommentQuery(params entity.CommentListParams) (repository.CommentQuery, error) {
	query := repository.CommentQuery{
		SortField: "date",
		SortDir:   -1,
	}

	switch params.SortOn {
	case "", "date":
		query.SortField = "date"
		query.SortDir = -1
	case "likes":
		query.SortField = "likes"
		query.SortDir = 1
	default:
		return query, NewValidationError("sortOn must be date or likes")
	}

	if params.SortDir != "" {
		dir, err := strconv.Atoi(params.SortDir)
		if err != nil || (dir != -1 && dir != 1) {
			return query, NewValidationError("sortDir must be -1 or 1")
		}
		query.SortDir = dir
	}

	if params.After != "" {
		v, err := strconv.ParseInt(params.After, 10, 64)
		if err != nil {
			return query, NewValidationError("after must be a number")
		}
		query.After = &v
	}

	if params.Before != "" {
		v, err := strconv.ParseInt(params.Before, 10, 64)
		if err != nil {
			return query, NewValidationError("before must be a number")
		}
		query.Before = &v
	}

	return query, nil
}
