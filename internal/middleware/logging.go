// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
)

// RequestLogger 是一个 Gin 中间件，为每个请求记录一条结构化访问日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"userAgent", c.Request.UserAgent(),
		)
	}
}
