package repository

import (
	"context"

	"github.com/caioalcolea/talkhub-mcp-server/internal/model"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"gorm.io/gorm"
)

// EventRepository 把 Kafka 消费到的分析事件落库到 analytics_events 表。
// 它实现了 kafka.EventSink。
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建一个新的 EventRepository 实例。
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Record 持久化一条分析事件。
func (r *EventRepository) Record(ctx context.Context, evt events.AnalyticsEvent) error {
	record := model.AnalyticsEventRecord{
		EventType: evt.EventType,
		UserID:    evt.UserID,
		SessionID: evt.SessionID,
		EventData: model.JSONMap(evt.Data),
		Timestamp: evt.Timestamp,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}
