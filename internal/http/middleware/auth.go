package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"citizen-portal/internal/auth"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer"
	adminUserContextKey = "admin_user"
)

// AdminAuth guards the administrative surface: a valid bearer token with
// the admin role is required, everything else is rejected before the
// handler runs.
func AdminAuth(parser *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(authorizationHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}
		parts := strings.SplitN(raw, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		claims, err := parser.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Set(adminUserContextKey, claims.UserID)
		c.Next()
	}
}

// AdminUser returns the authenticated admin's user id, if any.
func AdminUser(c *gin.Context) (string, bool) {
	value, exists := c.Get(adminUserContextKey)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok
}
