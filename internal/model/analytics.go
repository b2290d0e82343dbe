package model

import "time"

// 可选的分析指标名，与 get_conversation_analytics 的 metrics 参数对应。
const (
	MetricIntentDistribution       = "intent_distribution"
	MetricSentimentAnalysis        = "sentiment_analysis"
	MetricPeakHours                = "peak_hours"
	MetricCompletionRate           = "completion_rate"
	MetricSatisfactionDistribution = "satisfaction_distribution"
	MetricTopTopics                = "top_topics"
	MetricResponseTime             = "response_time"
)

// TopicShare 表示一个主题在会话集合中的出现次数及占比。
type TopicShare struct {
	Topic      string  `json:"topic"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SatisfactionDistribution 汇总满意度评分的均值与按分值的直方图。
type SatisfactionDistribution struct {
	Average   float64     `json:"average"`
	Count     int         `json:"count"`
	Histogram map[int]int `json:"histogram"`
}

// AnalyticsReport 是对任意会话集合的聚合分析结果。
// 指针字段为 nil 表示对应指标未被请求。
type AnalyticsReport struct {
	TotalConversations         int                       `json:"total_conversations"`
	UniqueUsers                int                       `json:"unique_users"`
	AvgMessagesPerConversation float64                   `json:"avg_messages_per_conversation"`
	IntentDistribution         map[string]int            `json:"intent_distribution,omitempty"`
	SentimentAnalysis          map[string]int            `json:"sentiment_analysis,omitempty"`
	PeakHours                  map[int]int               `json:"peak_hours,omitempty"`
	CompletionRate             *float64                  `json:"completion_rate,omitempty"`
	Satisfaction               *SatisfactionDistribution `json:"satisfaction_distribution,omitempty"`
	TopTopics                  []TopicShare              `json:"top_topics,omitempty"`
	AvgResponseTimeSeconds     *float64                  `json:"avg_response_time_seconds,omitempty"`
}

// AnalyticsEventRecord 是落库的一条分析事件（analytics_events 表）。
type AnalyticsEventRecord struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	EventType string    `gorm:"index;size:100;not null" json:"event_type"`
	UserID    string    `gorm:"index;size:255" json:"user_id,omitempty"`
	SessionID string    `gorm:"size:255" json:"session_id,omitempty"`
	EventData JSONMap   `gorm:"type:json" json:"event_data"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (AnalyticsEventRecord) TableName() string {
	return "analytics_events"
}
