package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/FranOrder/complaint-backend/internal/session"
	"github.com/FranOrder/complaint-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey   = "authUser"
	AuthRoleKey   = "authRole"
	AuthClaimsKey = "authClaims"
)

// JWTAuthMiddleware creates a middleware for JWT authentication. Tokens whose
// jti has been revoked (logout) are rejected like any other invalid token.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if sessions != nil && claims.ID != "" {
			revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("ERROR: failed to check session revocation for jti %s: %v", claims.ID, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been revoked"})
				return
			}
		}

		// Set user information in context
		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, claims.Role)
		c.Set(AuthClaimsKey, claims)

		c.Next()
	}
}
