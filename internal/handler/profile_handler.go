package handler

import (
	"errors"
	"net/http"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/internal/service"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
)

// ProfileHandler 处理用户档案相关的 API 请求。
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例。
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest 定义了更新档案 API 的请求体结构。
type UpdateProfileRequest struct {
	UserID        string                 `json:"user_id" binding:"required"`
	ProfileData   map[string]interface{} `json:"profile_data" binding:"required"`
	MergeStrategy string                 `json:"merge_strategy"`
}

// UpdateProfile 处理按策略 upsert 用户档案的请求。
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and profile_data are required"})
		return
	}

	profile, err := h.profileService.UpdateProfile(
		c.Request.Context(),
		req.UserID,
		req.ProfileData,
		model.MergeStrategy(req.MergeStrategy),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingUserID),
			errors.Is(err, service.ErrMissingProfileData),
			errors.Is(err, service.ErrInvalidStrategy):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Errorf("UpdateProfile: failed for user %s, error: %v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    profile,
	})
}
