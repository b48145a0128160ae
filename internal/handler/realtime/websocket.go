// Package realtime 提供基于 WebSocket 的聊天通道。
package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/somaarjun/portfolio/backend/internal/handler/chat"
	"github.com/somaarjun/portfolio/backend/internal/middleware"
	aiService "github.com/somaarjun/portfolio/backend/internal/service/ai"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler WebSocket聊天处理器
type WebSocketHandler struct {
	relay    chatHandler.Relay
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(relay chatHandler.Relay) *WebSocketHandler {
	return &WebSocketHandler{
		relay: relay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleWebSocket)
	r.Options("/ws/chat", middleware.Preflight)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(msgType string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(outgoingMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	log.Printf("[ws] new connection from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go pingLoop(ctx, c)

	if err := c.send("connected", nil); err != nil {
		return
	}

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		ws.SetReadDeadline(time.Now().Add(readTimeout))

		// Turns are handled one at a time per connection.
		if err := h.handleMessage(ctx, c, &msg); err != nil {
			log.Printf("[ws] write failed: %v", err)
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, c *conn, msg *inboundMessage) error {
	switch msg.Type {
	case "chat":
		var req aiService.Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return c.send("error", map[string]string{"error": "invalid chat payload"})
		}

		reply, err := h.relay.Reply(ctx, req)
		if err != nil {
			_, message := chatHandler.ErrorStatus(err)
			return c.send("error", map[string]string{"error": message})
		}
		return c.send("reply", reply)
	case "ping":
		return c.send("pong", nil)
	default:
		return c.send("error", map[string]string{"error": "unsupported message type: " + msg.Type})
	}
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
