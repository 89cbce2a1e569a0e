package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cookboard/pkg/metrics"
	"cookboard/recipes-service/internal/app/recipes/entity"

	"github.com/redis/go-redis/v9"
)

const recipeCacheKeyPrefix = "recipe:"

// RedisRecipeCache кеширует документы рецептов по ID
// Инвалидируется при любом изменении рецепта, включая пересчет агрегата оценок
type RedisRecipeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRecipeCache(addr, password string, db int, ttl time.Duration) (*RedisRecipeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRecipeCache{client: client, ttl: ttl}, nil
}

// Get возвращает рецепт из кеша, (nil, nil) при промахе
func (r *RedisRecipeCache) Get(ctx context.Context, id string) (*entity.Recipe, error) {
	data, err := r.client.Get(ctx, recipeCacheKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("recipes-service", "recipe")
			return nil, nil
		}
		metrics.RecordRedisError("recipes-service", "get")
		return nil, fmt.Errorf("failed to get recipe from cache: %w", err)
	}

	var recipe entity.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached recipe: %w", err)
	}

	metrics.RecordCacheHit("recipes-service", "recipe")
	return &recipe, nil
}

func (r *RedisRecipeCache) Set(ctx context.Context, recipe *entity.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := r.client.Set(ctx, recipeCacheKeyPrefix+recipe.ID.Hex(), data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError("recipes-service", "set")
		return fmt.Errorf("failed to set recipe in cache: %w", err)
	}

	return nil
}

func (r *RedisRecipeCache) Invalidate(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, recipeCacheKeyPrefix+id).Err(); err != nil {
		metrics.RecordRedisError("recipes-service", "del")
		return fmt.Errorf("failed to delete recipe from cache: %w", err)
	}
	return nil
}

func (r *RedisRecipeCache) Close() error {
	return r.client.Close()
}
