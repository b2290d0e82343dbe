package repository

import (
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"gorm.io/gorm"
)

// ConversationFilter 描述分析查询的过滤条件，零值字段不参与过滤。
type ConversationFilter struct {
	UserID string
	Start  *time.Time
	End    *time.Time
}

// ConversationRepository 接口定义了会话记录的持久化操作。
type ConversationRepository interface {
	Create(conversation *model.Conversation) error
	FindRecentByUserID(userID string, limit int) ([]model.Conversation, error)
	FindFiltered(filter ConversationFilter) ([]model.Conversation, error)
}

// conversationRepository 是 ConversationRepository 接口的 GORM 实现。
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// Create 持久化一条会话记录。
func (r *conversationRepository) Create(conversation *model.Conversation) error {
	return r.db.Create(conversation).Error
}

// FindRecentByUserID 按创建时间倒序返回用户最近的若干条会话。
func (r *conversationRepository) FindRecentByUserID(userID string, limit int) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&conversations).Error
	return conversations, err
}

// FindFiltered 按用户和时间范围过滤会话，供分析聚合使用。
func (r *conversationRepository) FindFiltered(filter ConversationFilter) ([]model.Conversation, error) {
	db := r.db.Model(&model.Conversation{})
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Start != nil {
		db = db.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		db = db.Where("created_at <= ?", *filter.End)
	}

	var conversations []model.Conversation
	err := db.Order("created_at DESC").Find(&conversations).Error
	return conversations, err
}
