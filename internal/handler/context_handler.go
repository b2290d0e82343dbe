package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
)

// ContextHandler 处理用户上下文相关的 API 请求。
type ContextHandler struct {
	contextService service.ContextService
}

// NewContextHandler 创建一个新的 ContextHandler 实例。
func NewContextHandler(contextService service.ContextService) *ContextHandler {
	return &ContextHandler{contextService: contextService}
}

// GetUserContext 处理获取用户上下文的请求。
// include_history 默认 true，max_conversations 缺省时由服务层取配置值。
func (h *ContextHandler) GetUserContext(c *gin.Context) {
	userID := c.Param("userId")

	includeHistory := true
	if raw := c.Query("include_history"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "include_history must be a boolean"})
			return
		}
		includeHistory = parsed
	}

	maxConversations := 0
	if raw := c.Query("max_conversations"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_conversations must be an integer"})
			return
		}
		maxConversations = parsed
	}

	userContext, err := h.contextService.GetUserContext(c.Request.Context(), userID, includeHistory, maxConversations)
	if err != nil {
		if errors.Is(err, service.ErrMissingUserID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("GetUserContext: failed for user %s, error: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    userContext,
	})
}

// AddContextNoteRequest 定义了添加上下文记录 API 的请求体结构。
type AddContextNoteRequest struct {
	UserID         string                 `json:"user_id" binding:"required"`
	ContextType    string                 `json:"context_type" binding:"required"`
	ContextData    map[string]interface{} `json:"context_data" binding:"required"`
	RelevanceScore *float64               `json:"relevance_score"`
	ExpiresAt      *string                `json:"expires_at"`
}

// AddContextNote 写入一条上下文补充记录。
func (h *ContextHandler) AddContextNote(c *gin.Context) {
	var req AddContextNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, context_type and context_data are required"})
		return
	}

	note := &model.ContextNote{
		UserID:      req.UserID,
		ContextType: req.ContextType,
		ContextData: model.JSONMap(req.ContextData),
	}
	if req.RelevanceScore != nil {
		note.RelevanceScore = *req.RelevanceScore
	}
	if req.ExpiresAt != nil {
		expires, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be an RFC3339 timestamp"})
			return
		}
		note.ExpiresAt = &expires
	}

	if err := h.contextService.AddContextNote(c.Request.Context(), note); err != nil {
		log.Errorf("AddContextNote: failed for user %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add context note"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "success",
		"data":    note,
	})
}
