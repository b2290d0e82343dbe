package handler

import (
	"errors"
	"net/http"

	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionHandler 处理聊天会话相关的 API 请求。
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler 创建一个新的 SessionHandler 实例。
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest 定义了创建会话 API 的请求体结构。
type CreateSessionRequest struct {
	UserID   string                 `json:"user_id" binding:"required"`
	UserData map[string]interface{} `json:"user_data"`
	Platform string                 `json:"platform"`
}

// CreateSession 处理创建聊天会话的请求。
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	session, err := h.sessionService.CreateSession(c.Request.Context(), req.UserID, req.UserData, req.Platform)
	if err != nil {
		log.Errorf("CreateSession: failed for user %s, error: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    http.StatusCreated,
		"message": "success",
		"data":    session,
	})
}

// GetSession 按 session_id 查询会话，先走快查缓存。
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")

	session, err := h.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		log.Errorf("GetSession: failed for %s, error: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    session,
	})
}
