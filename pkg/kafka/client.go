// Package kafka 提供了分析事件在 Kafka 上的生产与消费。
package kafka

import (
	"context"
	"encoding/json"

	"github.com/caioalcolea/talkhub-mcp-server/internal/config"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"

	"github.com/segmentio/kafka-go"
)

// EventSink 抽象了事件的落库端，解耦消费者与具体的存储实现。
type EventSink interface {
	Record(ctx context.Context, evt events.AnalyticsEvent) error
}

// Producer 将分析事件写入 Kafka，实现 events.Publisher。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 初始化 Kafka 生产者。brokers 为空时返回 nil，
// 调用方据此跳过事件发布（事件链路是可选的加速/审计通道）。
func NewProducer(cfg config.KafkaConfig) *Producer {
	if cfg.Brokers == "" {
		log.Warnf("kafka brokers not configured, analytics event stream disabled")
		return nil
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
	return &Producer{writer: w}
}

// Publish 序列化事件并写入 Kafka。
func (p *Producer) Publish(ctx context.Context, evt events.AnalyticsEvent) error {
	evtBytes, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.EventType),
		Value: evtBytes,
	})
}

// Close 关闭底层 writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}

// StartConsumer 启动一个消费者，把分析事件持久化到存储层。
// 它在独立的 goroutine 中运行，循环到读取失败为止。
func StartConsumer(cfg config.KafkaConfig, sink EventSink) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "talkhub-analytics-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var evt events.AnalyticsEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			log.Errorf("无法解析分析事件: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		if err := sink.Record(context.Background(), evt); err != nil {
			// 落库失败时不提交 offset，让 Kafka 重试
			log.Errorf("持久化分析事件失败: type=%s, error: %v", evt.EventType, err)
			continue
		}
		if err := r.CommitMessages(context.Background(), m); err != nil {
			log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
		}
	}

	if err := r.Close(); err != nil {
		log.Errorf("关闭 Kafka 消费者失败: %v", err)
	}
}
