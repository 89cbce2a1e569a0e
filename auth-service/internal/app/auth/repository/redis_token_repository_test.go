package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TokenRepositoryTestSuite тестовый suite для Redis репозитория токенов
type TokenRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      TokenRepository
}

func TestTokenRepositorySuite(t *testing.T) {
	suite.Run(t, new(TokenRepositoryTestSuite))
}

func (s *TokenRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{Addr: s.miniRedis.Addr()})
	s.repo = NewRedisTokenRepository(s.client)
}

func (s *TokenRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *TokenRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

func (s *TokenRepositoryTestSuite) TestSaveAndGetRefreshToken() {
	ctx := context.Background()
	userID := uuid.New()

	err := s.repo.SaveRefreshToken(ctx, userID, "token-1", time.Now().Add(time.Hour))
	s.NoError(err)

	stored, err := s.repo.GetRefreshToken(ctx, "token-1")
	s.NoError(err)
	s.Equal(userID, stored.UserID)
	s.Equal("token-1", stored.Token)
}

func (s *TokenRepositoryTestSuite) TestGetRefreshToken_NotFound() {
	stored, err := s.repo.GetRefreshToken(context.Background(), "unknown-token")

	s.Nil(stored)
	s.ErrorIs(err, ErrNotFound)
}

func (s *TokenRepositoryTestSuite) TestSaveRefreshToken_AlreadyExpired() {
	err := s.repo.SaveRefreshToken(context.Background(), uuid.New(), "token-1", time.Now().Add(-time.Minute))

	s.Error(err)
}

func (s *TokenRepositoryTestSuite) TestDeleteRefreshToken() {
	ctx := context.Background()
	userID := uuid.New()

	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "token-1", time.Now().Add(time.Hour)))

	err := s.repo.DeleteRefreshToken(ctx, "token-1")
	s.NoError(err)

	_, err = s.repo.GetRefreshToken(ctx, "token-1")
	s.ErrorIs(err, ErrNotFound)
}

func (s *TokenRepositoryTestSuite) TestDeleteUserRefreshTokens_RemovesAll() {
	ctx := context.Background()
	userID := uuid.New()
	otherUserID := uuid.New()

	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "token-1", time.Now().Add(time.Hour)))
	s.NoError(s.repo.SaveRefreshToken(ctx, userID, "token-2", time.Now().Add(time.Hour)))
	s.NoError(s.repo.SaveRefreshToken(ctx, otherUserID, "token-3", time.Now().Add(time.Hour)))

	err := s.repo.DeleteUserRefreshTokens(ctx, userID)
	s.NoError(err)

	_, err = s.repo.GetRefreshToken(ctx, "token-1")
	s.ErrorIs(err, ErrNotFound)
	_, err = s.repo.GetRefreshToken(ctx, "token-2")
	s.ErrorIs(err, ErrNotFound)

	// Токены другого пользователя не затрагиваются
	stored, err := s.repo.GetRefreshToken(ctx, "token-3")
	s.NoError(err)
	s.Equal(otherUserID, stored.UserID)
}

func (s *TokenRepositoryTestSuite) TestRefreshToken_ExpiresByTTL() {
	ctx := context.Background()

	s.NoError(s.repo.SaveRefreshToken(ctx, uuid.New(), "token-1", time.Now().Add(time.Second)))

	s.miniRedis.FastForward(2 * time.Second)

	_, err := s.repo.GetRefreshToken(ctx, "token-1")
	s.ErrorIs(err, ErrNotFound)
}

func (s *TokenRepositoryTestSuite) TestBlacklist() {
	ctx := context.Background()

	blacklisted, err := s.repo.IsBlacklisted(ctx, "access-token")
	s.NoError(err)
	s.False(blacklisted)

	s.NoError(s.repo.AddToBlacklist(ctx, "access-token", time.Now().Add(time.Minute)))

	blacklisted, err = s.repo.IsBlacklisted(ctx, "access-token")
	s.NoError(err)
	s.True(blacklisted)
}

func (s *TokenRepositoryTestSuite) TestBlacklist_ExpiredTokenIsNoop() {
	ctx := context.Background()

	// Истекший access токен нет смысла блокировать
	s.NoError(s.repo.AddToBlacklist(ctx, "old-token", time.Now().Add(-time.Minute)))

	blacklisted, err := s.repo.IsBlacklisted(ctx, "old-token")
	s.NoError(err)
	s.False(blacklisted)
}

func (s *TokenRepositoryTestSuite) TestBlacklist_EntryExpiresWithToken() {
	ctx := context.Background()

	s.NoError(s.repo.AddToBlacklist(ctx, "access-token", time.Now().Add(time.Second)))

	s.miniRedis.FastForward(2 * time.Second)

	blacklisted, err := s.repo.IsBlacklisted(ctx, "access-token")
	s.NoError(err)
	s.False(blacklisted)
}
