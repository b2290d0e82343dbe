package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
)

// SearchHandler 处理会话全文检索的管理端请求。
type SearchHandler struct {
	analyticsService service.AnalyticsService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(analyticsService service.AnalyticsService) *SearchHandler {
	return &SearchHandler{analyticsService: analyticsService}
}

// SearchConversations 在会话索引上执行全文查询。
func (h *SearchHandler) SearchConversations(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	results, err := h.analyticsService.SearchTranscripts(c.Request.Context(), query, limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("SearchConversations: failed for query %q, error: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"query":   query,
			"total":   len(results),
			"results": results,
		},
	})
}
