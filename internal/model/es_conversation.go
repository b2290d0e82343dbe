package model

import "time"

// EsConversation 是写入 Elasticsearch 的会话检索文档。
// 消息内容被拍平成一个 text 字段供全文检索。
type EsConversation struct {
	ConversationID string    `json:"conversation_id"`
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	Text           string    `json:"text"`
	Intent         string    `json:"intent"`
	Sentiment      string    `json:"sentiment"`
	Topics         []string  `json:"topics"`
	MessageCount   int       `json:"message_count"`
	CreatedAt      time.Time `json:"created_at"`
}
