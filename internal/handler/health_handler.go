// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/repository"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/database"
	"github.com/gin-gonic/gin"
)

// HealthHandler 负责服务健康检查。
type HealthHandler struct {
	cache repository.CacheRepository
}

// NewHealthHandler 创建一个新的 HealthHandler 实例。
func NewHealthHandler(cache repository.CacheRepository) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check 依次探活数据库和缓存。
// 任一依赖异常时整体状态降级为 degraded 并返回 503。
func (h *HealthHandler) Check(c *gin.Context) {
	status := "healthy"
	dbStatus := gin.H{"status": "connected"}
	cacheStatus := gin.H{"status": "connected"}

	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = "degraded"
		dbStatus = gin.H{"status": "error", "message": err.Error()}
	}

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		status = "degraded"
		cacheStatus = gin.H{"status": "error", "message": err.Error()}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
		"redis":     cacheStatus,
	})
}

// Test 是一个无需认证的连通性探针。
func (h *HealthHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "TalkHub MCP Server is running!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "v1",
	})
}
