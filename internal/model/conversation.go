package model

import (
	"database/sql/driver"
	"time"
)

// 情感标签。
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// IntentUnknown 表示没有任何意图类别得分时的兜底标签。
const IntentUnknown = "unknown"

// 参与度层级。
const (
	EngagementHigh   = "high"
	EngagementMedium = "medium"
	EngagementLow    = "low"
)

// CompletionStatusCompleted 表示会话以完成状态收尾。
const CompletionStatusCompleted = "completed"

// UserEngagement 描述用户在一次会话中的参与程度。
type UserEngagement struct {
	UserMessageCount   int     `json:"user_message_count"`
	AvgWordsPerMessage float64 `json:"avg_words_per_message"`
	EngagementLevel    string  `json:"engagement_level"`
}

// ClassificationResult 是分类器对一次会话的完整输出。
// 仅在保存会话时计算一次，之后不再变更。
type ClassificationResult struct {
	Sentiment      string         `json:"sentiment"`
	Intent         string         `json:"intent"`
	Topics         []string       `json:"topics"`
	Confidence     float64        `json:"confidence"`
	MessageCount   int            `json:"message_count"`
	UserEngagement UserEngagement `json:"user_engagement"`
}

func (r ClassificationResult) Value() (driver.Value, error) {
	return jsonValue(r)
}

func (r *ClassificationResult) Scan(value interface{}) error {
	return jsonScan(r, value)
}

// ConversationMetadata 汇总一次会话的派生指标与调用方附加数据。
type ConversationMetadata struct {
	MessageCount      int      `json:"message_count"`
	DurationSeconds   int      `json:"duration_seconds"`
	CompletionStatus  string   `json:"completion_status"`
	SatisfactionScore *float64 `json:"satisfaction_score,omitempty"`
	Extra             JSONMap  `json:"extra,omitempty"`
}

func (m ConversationMetadata) Value() (driver.Value, error) {
	return jsonValue(m)
}

func (m *ConversationMetadata) Scan(value interface{}) error {
	return jsonScan(m, value)
}

// Conversation 代表一次完整的聊天会话记录，写入后不可变。
type Conversation struct {
	ID             uint                 `gorm:"primaryKey" json:"-"`
	ConversationID string               `gorm:"uniqueIndex;size:255;not null" json:"conversation_id"`
	SessionID      string               `gorm:"index;size:255;not null" json:"session_id"`
	UserID         string               `gorm:"index;size:255;not null" json:"user_id"`
	Messages       MessageList          `gorm:"type:json" json:"messages"`
	IntentAnalysis ClassificationResult `gorm:"type:json" json:"intent_analysis"`
	Metadata       ConversationMetadata `gorm:"type:json" json:"metadata"`
	CreatedAt      time.Time            `gorm:"index;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"autoUpdateTime" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}
