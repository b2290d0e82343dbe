package model

import "time"

// 会话状态。
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// ChatSession 代表一次聊天会话的生命周期记录。
type ChatSession struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID string    `gorm:"uniqueIndex;size:255;not null" json:"session_id"`
	UserID    string    `gorm:"index;size:255;not null" json:"user_id"`
	UserData  JSONMap   `gorm:"type:json" json:"user_data"`
	Platform  string    `gorm:"size:100;default:unknown" json:"platform"`
	Status    string    `gorm:"size:50;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
