package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimiter 创建一个基于 Redis 固定窗口的限流中间件。
// 窗口内同一客户端 IP 的请求数超过 max 时返回 429。
// Redis 故障时放行并记录警告：限流是保护手段，不是正确性前提。
func RateLimiter(rdb *redis.Client, window time.Duration, max int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Warnf("rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			// 窗口内第一个请求，设置过期时间
			if err := rdb.Expire(c.Request.Context(), key, window).Err(); err != nil {
				log.Warnf("failed to set rate limit window for %s: %v", key, err)
			}
		}

		if count > int64(max) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests from this IP, please try again later.",
			})
			return
		}

		c.Next()
	}
}
