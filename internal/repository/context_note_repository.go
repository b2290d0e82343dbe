package repository

import (
	"time"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"gorm.io/gorm"
)

// ContextNoteRepository 接口定义了用户上下文补充记录的持久化操作。
type ContextNoteRepository interface {
	Create(note *model.ContextNote) error
	FindActiveByUserID(userID string) ([]model.ContextNote, error)
}

// contextNoteRepository 是 ContextNoteRepository 接口的 GORM 实现。
type contextNoteRepository struct {
	db *gorm.DB
}

// NewContextNoteRepository 创建一个新的 ContextNoteRepository 实例。
func NewContextNoteRepository(db *gorm.DB) ContextNoteRepository {
	return &contextNoteRepository{db: db}
}

// Create 写入一条上下文记录。
func (r *contextNoteRepository) Create(note *model.ContextNote) error {
	return r.db.Create(note).Error
}

// FindActiveByUserID 返回用户所有未过期的上下文记录，按相关性降序。
func (r *contextNoteRepository) FindActiveByUserID(userID string) ([]model.ContextNote, error) {
	var notes []model.ContextNote
	err := r.db.Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Order("relevance_score DESC").
		Find(&notes).Error
	return notes, err
}
