package service

import (
	"context"

	"cookboard/auth-service/internal/app/auth/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	AuthenticateToken(ctx context.Context, accessToken string) (*entity.TokenClaims, error)
	ValidateToken(ctx context.Context, accessToken string) (*entity.TokenValidationResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *entity.UpdateProfileRequest) (*entity.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req *entity.UpdatePasswordRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}
