// Package repository 提供了数据访问层的接口和实现。
package repository

import (
	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"gorm.io/gorm"
)

// SessionRepository 接口定义了聊天会话记录的持久化操作。
type SessionRepository interface {
	Create(session *model.ChatSession) error
	FindBySessionID(sessionID string) (*model.ChatSession, error)
	UpdateStatus(sessionID, status string) error
}

// sessionRepository 是 SessionRepository 接口的 GORM 实现。
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create 在数据库中创建一条新的会话记录。
func (r *sessionRepository) Create(session *model.ChatSession) error {
	return r.db.Create(session).Error
}

// FindBySessionID 根据 session_id 查找会话。
func (r *sessionRepository) FindBySessionID(sessionID string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateStatus 更新指定会话的状态（如保存会话后标记为 completed）。
func (r *sessionRepository) UpdateStatus(sessionID, status string) error {
	return r.db.Model(&model.ChatSession{}).
		Where("session_id = ?", sessionID).
		Update("status", status).Error
}
