package middleware

import (
	"net/http"

	"fuelq/models"

	"github.com/gin-gonic/gin"
)

// RequireRoles allows the request through only when the authenticated user's
// role is one of the given set. Must run after JWTAuthMiddleware. Roles
// outside the closed set never match.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		role := models.Role(raw.(string))
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Unknown role",
			})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}
