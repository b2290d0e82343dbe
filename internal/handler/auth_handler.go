package handler

import (
	"fmt"
	"net/http"

	"github.com/caioalcolea/talkhub-mcp-server/pkg/hash"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/token"
	"github.com/gin-gonic/gin"
)

// AuthHandler 负责处理认证相关的 API 请求。
type AuthHandler struct {
	jwtManager      *token.JWTManager
	adminSecretHash string
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(jwtManager *token.JWTManager, adminSecretHash string) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager, adminSecretHash: adminSecretHash}
}

// IssueTokenRequest 定义了签发 token API 的请求体结构。
type IssueTokenRequest struct {
	Username    string `json:"username" binding:"required"`
	AdminSecret string `json:"admin_secret" binding:"required"`
}

// IssueToken 校验管理密钥并签发访问令牌。
// 配置中只保存密钥的 bcrypt 哈希，比对失败统一返回 401。
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("IssueToken: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and admin_secret are required"})
		return
	}

	if h.adminSecretHash == "" || !hash.CheckSecret(req.AdminSecret, h.adminSecretHash) {
		log.Warnf("IssueToken: Invalid admin secret for username %s", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin secret"})
		return
	}

	accessToken, err := h.jwtManager.GenerateToken(req.Username, "admin")
	if err != nil {
		log.Errorf("IssueToken: Failed to generate token, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Infow("access token issued", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"token":      accessToken,
			"expires_in": fmt.Sprintf("%dh", int(h.jwtManager.TokenDuration().Hours())),
		},
	})
}
