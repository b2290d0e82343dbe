// Package ws 实现了分析事件的 WebSocket 实时广播。
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/caioalcolea/talkhub-mcp-server/pkg/events"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"

	"github.com/gorilla/websocket"
)

// Hub 维护所有已连接的观察端，并把写路径的事件推送给它们。
// 它实现 events.Publisher，与 Kafka 生产者走同一条发布链路。
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// 每个连接的发送队列长度；慢消费者的消息会被丢弃而不是阻塞广播。
const clientQueueSize = 16

// NewHub 创建一个新的 Hub。
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Register 接管一个已升级的 WebSocket 连接，直到连接关闭。
// 调用方的读循环退出后应调用 Unregister。
func (h *Hub) Register(conn *websocket.Conn) {
	queue := make(chan []byte, clientQueueSize)

	h.mu.Lock()
	h.clients[conn] = queue
	h.mu.Unlock()

	// 独立的写 goroutine，避免并发写同一连接
	go func() {
		for msg := range queue {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Warnf("写入事件订阅连接失败: %v", err)
				return
			}
		}
	}()
}

// Unregister 移除一个连接并关闭其发送队列。
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if queue, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(queue)
	}
	h.mu.Unlock()
}

// ClientCount 返回当前连接数。
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish 把事件序列化后广播给所有连接，实现 events.Publisher。
// 发送队列已满的连接直接跳过。
func (h *Hub) Publish(_ context.Context, evt events.AnalyticsEvent) error {
	msg, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, queue := range h.clients {
		select {
		case queue <- msg:
		default:
			// 慢消费者，丢弃本条消息
		}
	}
	return nil
}
