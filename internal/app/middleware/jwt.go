package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/error/code"
	"vizinho-http-service/internal/error/response"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextUser   = "user"
	ContextClaims = "claims"
)

// extractToken returns the token of a "Bearer {token}" header
func extractToken(authHeader string) (string, bool) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Authentication validates the bearer token and loads the acting user.
// The role stored in the database wins over the role in the token.
func Authentication(jwtService services.InterfaceJWTService, userService services.InterfaceUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.FailWithMessage(c, code.ErrTokenInvalid, "authorization header is required", nil)
			c.Abort()
			return
		}

		tokenString, ok := extractToken(authHeader)
		if !ok {
			response.FailWithMessage(c, code.ErrTokenInvalid, "authorization header format must be Bearer {token}", nil)
			c.Abort()
			return
		}

		claims, err := jwtService.ExtractClaims(tokenString)
		if err != nil {
			response.FailWithMessage(c, code.ErrTokenInvalid, "invalid or expired token", nil)
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				response.FailWithMessage(c, code.ErrTokenInvalid, "the account of this token no longer exists", nil)
			} else {
				response.Error(c, err)
			}
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextRole, user.Role)
		c.Set(ContextUser, user)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireAdmin rejects non-administrators; it must run after Authentication
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			response.Forbidden(c, "administrator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
