package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"fuelq/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// JWTAuthMiddleware authenticates a bearer token and puts userID and role on
// the context. Sessions live in the auth cache so logout revokes them; when
// the cache is unreachable a structurally valid JWT is accepted rather than
// locking everyone out.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  500,
				})
			}
		}()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, role, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		authCache := utils.GetAuthCacheClient()
		if authCache != nil {
			ctx := context.Background()
			cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)
			if _, err := authCache.Get(ctx, cacheKey).Result(); err != nil {
				if err == redis.Nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": "Session expired or revoked",
						"code":  0,
					})
					return
				}
				log.Printf("WARNING: Error retrieving auth cache key: %v. Accepting validated JWT.", err)
			} else {
				_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
			}
		} else {
			log.Printf("WARNING: Auth cache client not available. Accepting validated JWT.")
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}
