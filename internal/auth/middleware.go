package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey = "claims"
	userIDKey = "userID"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apiError{Code: "unauthorized", Message: msg}})
}

// Middleware requires a valid "Bearer <token>" Authorization header and
// stores the claims and user ID in the gin context.
func Middleware(m *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Access token required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := m.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetClaims extracts claims from the gin context
func GetClaims(c *gin.Context) (*Claims, bool) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	cl, ok := claims.(*Claims)
	return cl, ok
}

// UserID returns the authenticated user's ID set by Middleware.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
