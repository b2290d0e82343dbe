package handler

import (
	"errors"
	"net/http"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理会话记录相关的 API 请求。
type ConversationHandler struct {
	conversationService service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler 实例。
func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// SaveConversationRequest 定义了保存会话 API 的请求体结构。
// 分类结果由服务端计算，调用方提交的分析字段会被忽略。
type SaveConversationRequest struct {
	SessionID string                 `json:"session_id" binding:"required"`
	UserID    string                 `json:"user_id" binding:"required"`
	Messages  []model.Message        `json:"messages" binding:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// SaveConversation 处理保存完整会话的请求。
func (h *ConversationHandler) SaveConversation(c *gin.Context) {
	var req SaveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id, user_id, and messages are required"})
		return
	}

	conversation, err := h.conversationService.Save(c.Request.Context(), service.SaveConversationInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Messages:  req.Messages,
		Metadata:  req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingSessionID),
			errors.Is(err, service.ErrMissingUserID),
			errors.Is(err, service.ErrEmptyMessages):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Errorf("SaveConversation: failed for session %s, error: %v", req.SessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save conversation"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    conversation,
	})
}
