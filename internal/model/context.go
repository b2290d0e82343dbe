package model

import "time"

// ContextNote 是一条带相关性评分和可选过期时间的用户上下文补充记录。
type ContextNote struct {
	ID             uint       `gorm:"primaryKey" json:"-"`
	UserID         string     `gorm:"index;size:255;not null" json:"user_id"`
	ContextType    string     `gorm:"size:100;not null" json:"context_type"`
	ContextData    JSONMap    `gorm:"type:json" json:"context_data"`
	RelevanceScore float64    `gorm:"default:0.5" json:"relevance_score"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ContextNote) TableName() string {
	return "user_context"
}

// IntentShare 表示一个意图在会话集合中的出现次数及占比。
type IntentShare struct {
	Intent     string  `json:"intent"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ConversationSummary 汇总用户历史会话的时间跨度与质量指标。
type ConversationSummary struct {
	FirstInteraction time.Time `json:"first_interaction"`
	LastInteraction  time.Time `json:"last_interaction"`
	TopTopics        []string  `json:"top_topics"`
	ResolutionRate   float64   `json:"resolution_rate"`
	AvgSatisfaction  float64   `json:"avg_satisfaction"`
}

// InteractionPatterns 是对一个用户全部历史会话的跨会话统计。
type InteractionPatterns struct {
	TotalConversations         int                  `json:"total_conversations"`
	AvgMessagesPerConversation float64              `json:"avg_messages_per_conversation"`
	MostActiveHours            []int                `json:"most_active_hours"`
	ConversationFrequency      string               `json:"conversation_frequency"`
	FrequencyPerDay            float64              `json:"frequency_per_day"`
	EngagementScore            float64              `json:"engagement_score"`
	LastInteraction            time.Time            `json:"last_interaction"`
	Summary                    *ConversationSummary `json:"summary,omitempty"`
	CommonIntents              []IntentShare        `json:"common_intents,omitempty"`
}

// UserContext 是为个性化应答组装的用户视图：档案 + 近期会话 + 交互模式。
// 它不是事实源，始终可以由底层表重建；命中缓存时直接返回。
type UserContext struct {
	UserID              string               `json:"user_id"`
	Profile             *UserProfile         `json:"profile"`
	HasHistory          bool                 `json:"has_history"`
	RecentConversations []Conversation       `json:"recent_conversations"`
	InteractionPatterns *InteractionPatterns `json:"interaction_patterns,omitempty"`
	AdditionalContext   []ContextNote        `json:"additional_context,omitempty"`
	CachedAt            time.Time            `json:"cached_at"`
}
