package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware 限流中间件
// 基于令牌桶，r 为每秒允许的请求数，burst 为突发容量（<=0 时取 r）
func RateLimitMiddleware(r int, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = r
	}
	limiter := rate.NewLimiter(rate.Limit(r), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "请求过于频繁",
				"message": "请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
