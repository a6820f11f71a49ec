package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/PRASANNA3300/BuyNow/internal/domain" // Role parsing
	"github.com/PRASANNA3300/BuyNow/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates bearer tokens and stores the caller's identity
// in the request context. The role is normalized exactly once, here.
func JWTAuthMiddleware(cfg utils.TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseAccessToken(cfg, tokenStr)  // Parse and validate the token
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		role, ok := domain.ParseRole(claims.Role) // Normalize the claimed role
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Set("role", role)            // Store normalized role in context
		c.Next()                       // Proceed to the next handler
	}
}

// CurrentUserID returns the authenticated caller's id from the context
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// IsAdmin reports whether the authenticated caller carries the admin role
func IsAdmin(c *gin.Context) bool {
	v, exists := c.Get("role")
	if !exists {
		return false
	}
	role, ok := v.(domain.Role)
	return ok && role == domain.RoleAdmin
}
