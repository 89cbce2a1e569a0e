package util

import (
	"context"

	"cookboard/recipes-service/internal/app/recipes/entity"
)

// RecipeCache интерфейс кеша документов рецептов
// Get возвращает (nil, nil) при промахе кеша
type RecipeCache interface {
	Get(ctx context.Context, id string) (*entity.Recipe, error)
	Set(ctx context.Context, recipe *entity.Recipe) error
	Invalidate(ctx context.Context, id string) error
}
