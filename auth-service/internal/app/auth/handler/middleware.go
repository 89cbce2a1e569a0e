package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cookboard/auth-service/internal/app/auth/entity"
	"cookboard/auth-service/internal/app/auth/service"
	"cookboard/auth-service/internal/app/auth/util"
)

type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := m.authService.AuthenticateToken(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, util.ErrExpiredToken):
				c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Error:   "Unauthorized",
					Message: "Token has expired",
				})
			case errors.Is(err, util.ErrInvalidToken), errors.Is(err, service.ErrTokenBlacklisted):
				c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
					Error:   "Unauthorized",
					Message: "Invalid token",
				})
			default:
				c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
					Error:   "Internal Server Error",
					Message: "Failed to validate token",
				})
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)

		c.Next()
	}
}
