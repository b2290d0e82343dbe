package model

import (
	"database/sql/driver"
	"time"
)

// 消息角色。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message 代表一次会话中的单条消息。
// Timestamp 为空时在入库阶段补为接收时间。
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  JSONMap   `json:"metadata,omitempty"`
}

// MessageList 是按时间顺序排列的消息序列，整体存为 JSON 列。
type MessageList []Message

func (l MessageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (l *MessageList) Scan(value interface{}) error {
	return jsonScan(l, value)
}
