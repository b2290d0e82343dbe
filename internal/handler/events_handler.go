package handler

import (
	"net/http"

	"github.com/caioalcolea/talkhub-mcp-server/internal/ws"
	"github.com/caioalcolea/talkhub-mcp-server/pkg/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// EventsHandler 把实时分析事件流推送给管理端 WebSocket 连接。
type EventsHandler struct {
	hub *ws.Hub
}

// NewEventsHandler 创建一个新的 EventsHandler 实例。
func NewEventsHandler(hub *ws.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// LiveEvents 处理一个传入的 WebSocket 连接。
// 连接是纯观察性的：只推送事件，读取循环仅用于感知断开。
func (e *EventsHandler) LiveEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	e.hub.Register(conn)
	defer e.hub.Unregister(conn)

	log.Infow("live event feed connected", "clients", e.hub.ClientCount())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
