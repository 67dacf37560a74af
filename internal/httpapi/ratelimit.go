package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"evidence-platform/internal/auth"
	"evidence-platform/pkg/logger"
	"evidence-platform/pkg/utils"
)

// RateLimit rejects requests once a client exceeds limit hits per window.
// Failing open when redis is unreachable keeps the API up; the outage is
// already visible in the logs.
func RateLimit(rdb *redis.Client, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + name + ":" + clientKey(c)
		ok, err := utils.AllowRequest(c.Request.Context(), rdb, key, limit, window)
		if err != nil {
			logger.FromGin(c).Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// clientKey prefers the authenticated principal so a shared NAT address does
// not starve unrelated users; anonymous traffic falls back to the client IP.
func clientKey(c *gin.Context) string {
	if id, err := auth.UserID(c.Request.Context()); err == nil {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}
