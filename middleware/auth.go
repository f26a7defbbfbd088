package middleware

import (
	"net/http"
	"strings"

	"numberhunt/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID  = "user_id"
	ContextIsAdmin = "is_admin"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and stores the
// caller's user id and admin flag on the context.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication-required"})
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidToken.Error()})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin-required"})
			return
		}
		c.Next()
	}
}
