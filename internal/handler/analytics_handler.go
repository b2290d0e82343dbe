package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler 处理会话分析相关的 API 请求。
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler 创建一个新的 AnalyticsHandler 实例。
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// parseAnalyticsFilter 从查询参数解析过滤条件。
// start/end 接受 RFC3339 或 2006-01-02 两种格式。
func parseAnalyticsFilter(c *gin.Context) (service.AnalyticsFilter, error) {
	filter := service.AnalyticsFilter{UserID: c.Query("user_id")}

	if raw := c.Query("start"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return filter, errors.New("start must be an RFC3339 or YYYY-MM-DD date")
		}
		filter.Start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return filter, errors.New("end must be an RFC3339 or YYYY-MM-DD date")
		}
		filter.End = &t
	}
	if raw := c.Query("metrics"); raw != "" {
		for _, m := range strings.Split(raw, ",") {
			if m = strings.TrimSpace(m); m != "" {
				filter.Metrics = append(filter.Metrics, m)
			}
		}
	}
	return filter, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// GetAnalytics 处理计算聚合指标的请求。
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.analyticsService.GetAnalytics(c.Request.Context(), filter)
	if err != nil {
		log.Errorf("GetAnalytics: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    report,
	})
}

// ExportAnalytics 处理计算并导出报表的请求，返回限时下载链接。
func (h *AnalyticsHandler) ExportAnalytics(c *gin.Context) {
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analyticsService.ExportReport(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("ExportAnalytics: failed, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    result,
	})
}
