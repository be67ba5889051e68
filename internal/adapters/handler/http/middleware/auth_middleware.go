package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	ContextUserIDKey    = "userID"
	ContextClaimsKey    = "claims"
)

// TokenValidator is the part of the token service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*services.Claims, error)
}

func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 || fields[0] != authorizationType {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := tokens.ValidateToken(c.Request.Context(), fields[1])
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
			case errors.Is(err, domain.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			default:
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextClaimsKey, claims)

		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok && idStr != ""
}

func GetClaims(c *gin.Context) (*services.Claims, bool) {
	v, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}
