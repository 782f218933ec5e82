package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uden-ai/uden-server/internal/models"
	"github.com/uden-ai/uden-server/internal/ratelimit"
	"github.com/uden-ai/uden-server/internal/session"
	"gorm.io/gorm"
)

const contextUserKey = "uden.user"

// AuthMiddleware resolves the bearer token to a user and stores it on
// the request context. Missing, unknown, or expired tokens abort 401.
func AuthMiddleware(conn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		user, errResolve := session.Resolve(c.Request.Context(), conn, tokenString)
		if errResolve != nil {
			if errors.Is(errResolve, session.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token lookup failed"})
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RateLimitMiddleware applies a per-client-IP fixed-window limit.
func RateLimitMiddleware(limiter ratelimit.Limiter, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, errAllow := limiter.Allow(c.Request.Context(), c.ClientIP(), limit, time.Now())
		if errAllow != nil || result.Allowed {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

// currentUser returns the user resolved by AuthMiddleware, or nil.
func currentUser(c *gin.Context) *models.User {
	value, found := c.Get(contextUserKey)
	if !found {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
