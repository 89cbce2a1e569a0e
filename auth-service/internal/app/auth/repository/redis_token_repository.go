package repository

import (
	"context"
	"fmt"
	"time"

	"cookboard/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository создает Redis репозиторий для refresh токенов
// и черного списка access токенов. Истекшие записи удаляет сам Redis по TTL.
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

func refreshKey(token string) string {
	return "refresh_token:" + token
}

func userTokensKey(userID uuid.UUID) string {
	return "user_tokens:" + userID.String()
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

// SaveRefreshToken сохраняет refresh токен с TTL до expiresAt
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}

	if err := r.client.Set(ctx, refreshKey(token), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	// Множество токенов пользователя нужно для отзыва всех его сессий разом
	key := userTokensKey(userID)
	if err := r.client.SAdd(ctx, key, token).Err(); err != nil {
		return fmt.Errorf("failed to add token to user set: %w", err)
	}
	r.client.Expire(ctx, key, ttl)

	return nil
}

func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	userIDStr, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID stored for refresh token: %w", err)
	}

	ttl, err := r.client.TTL(ctx, refreshKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token TTL: %w", err)
	}

	return &entity.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	// Сначала узнаем владельца, чтобы убрать токен из его множества
	userIDStr, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to get refresh token owner: %w", err)
	}

	if err := r.client.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	if userIDStr != "" {
		r.client.SRem(ctx, "user_tokens:"+userIDStr, token)
	}

	return nil
}

func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	key := userTokensKey(userID)

	tokens, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	for _, token := range tokens {
		r.client.Del(ctx, refreshKey(token))
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete user tokens set: %w", err)
	}

	return nil
}

func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, блокировать нечего
		return nil
	}

	if err := r.client.Set(ctx, blacklistKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	exists, err := r.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists > 0, nil
}
