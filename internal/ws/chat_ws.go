package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"soulmatch-service/internal/auth"
	"soulmatch-service/internal/observability"
	"soulmatch-service/internal/repositories"
)

// ChatSocketHandler upgrades chat websocket connections.
type ChatSocketHandler struct {
	hub    *Hub
	chats  repositories.ChatRepository
	tokens auth.TokenValidator
}

// NewChatSocketHandler constructs a ChatSocketHandler.
func NewChatSocketHandler(hub *Hub, chats repositories.ChatRepository, tokens auth.TokenValidator) *ChatSocketHandler {
	return &ChatSocketHandler{hub: hub, chats: chats, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates the caller, checks chat membership and registers the
// connection with the hub.
func (h *ChatSocketHandler) Handle(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("chat_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	ctx, span := otel.Tracer("soulmatch-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, err := h.authenticate(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	member, err := h.chats.IsMember(ctx, chatID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this chat"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID.String(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(chatID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.chats", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload: map[string]any{
			"ws": map[string]any{
				"chat_id": chatID.String(),
				"event":   "ws_connect",
				"conn_id": info.ConnID,
			},
			"identity": map[string]any{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(requestID, traceID))

	// Drain the connection until the peer goes away, then clean up.
	go func() {
		defer func() {
			h.hub.RemoveClient(chatID, conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.chats", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload: map[string]any{
					"ws": map[string]any{
						"chat_id":     chatID.String(),
						"event":       "ws_disconnect",
						"conn_id":     info.ConnID,
						"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
					},
					"identity": map[string]any{
						"user_id":   info.UserID,
						"device_id": info.DeviceID,
						"ip":        info.IP,
					},
				},
			}, observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
				}
				return
			}
		}
	}()
}

// authenticate accepts the token either as an Authorization header or as a
// token query parameter, since browser websocket clients cannot set headers.
func (h *ChatSocketHandler) authenticate(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return h.tokens.ValidateAccessToken(parts[1])
		}
	}
	return h.tokens.ValidateAccessToken(c.Query("token"))
}
