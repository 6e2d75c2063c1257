package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/observability"
)

// Hub maintains active websocket rooms keyed by chat id.
type Hub struct {
	rooms    map[uuid.UUID]map[*websocket.Conn]bool
	connInfo map[uuid.UUID]map[*websocket.Conn]ConnInfo
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[uuid.UUID]map[*websocket.Conn]bool),
		connInfo: make(map[uuid.UUID]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection to a chat room.
func (h *Hub) AddClient(chatID uuid.UUID, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[chatID]; !ok {
		h.rooms[chatID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[chatID][conn] = true
	if _, ok := h.connInfo[chatID]; !ok {
		h.connInfo[chatID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[chatID][conn] = info
}

// RemoveClient removes a websocket connection from its chat room.
func (h *Hub) RemoveClient(chatID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[chatID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, chatID)
		}
	}
	if infos, ok := h.connInfo[chatID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, chatID)
		}
	}
}

// BroadcastMessage sends a new message to every client in the chat room.
func (h *Hub) BroadcastMessage(chatID uuid.UUID, msg models.Message) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[chatID]))
	for conn := range h.rooms[chatID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := models.ChatEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("websocket write failed", "error", err)
			conn.Close()
			h.RemoveClient(chatID, conn)
			h.publishWSError(chatID, conn, err)
		}
	}
}

func (h *Hub) publishWSError(chatID uuid.UUID, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(chatID, conn)
	if !ok {
		return
	}

	payload := map[string]any{
		"ws": map[string]any{
			"chat_id":     chatID.String(),
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]any{
			"user_id":   info.UserID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.chats", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}

func (h *Hub) getConnInfo(chatID uuid.UUID, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.connInfo[chatID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
