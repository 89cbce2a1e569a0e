package entity

import (
	"time"

	"github.com/google/uuid"
)

// User - пользователь сервиса
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken - refresh токен пользователя
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair - пара access/refresh токенов
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Время жизни access токена в секундах
}

// TokenClaims - распарсенные claims access токена
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	Email     string
	ExpiresAt time.Time
}
