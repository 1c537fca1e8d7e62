package httpserver

import (
	"net/http"
	"strings"

	"greenhaven/internal/domain"

	"github.com/gin-gonic/gin"
)

const userKey = "authenticatedUser"
const tokenKey = "accessToken"

// authMiddleware resolves the bearer token to a user and aborts with 401
// when it cannot.
func authMiddleware(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		u, err := accounts.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userKey, u)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func currentToken(c *gin.Context) string {
	if v, ok := c.Get(tokenKey); ok {
		if t, ok := v.(string); ok {
			return t
		}
	}
	return ""
}
