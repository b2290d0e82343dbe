// Package events 定义了写路径产生的分析事件及其发布接口。
package events

import (
	"context"
	"time"
)

// 事件类型常量。
const (
	TypeSessionCreated    = "session_created"
	TypeConversationSaved = "conversation_saved"
	TypeProfileUpdated    = "profile_updated"
)

// AnalyticsEvent 是写路径向外广播的一条分析事件。
type AnalyticsEvent struct {
	EventType string                 `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"event_data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Publisher 抽象了事件的发布端。
// Kafka 生产者和 WebSocket 事件集线器都实现了该接口；
// 发布是 best-effort 的，失败由调用方记录日志后忽略。
type Publisher interface {
	Publish(ctx context.Context, evt AnalyticsEvent) error
}
