package service

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this username or email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrTokenBlacklisted    = errors.New("token is blacklisted")
)
