package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"soulmatch-service/internal/apperr"
	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/observability"
	"soulmatch-service/internal/repositories"
	"soulmatch-service/internal/telemetry"
	"soulmatch-service/internal/ws"
)

const (
	defaultMessageLimit  = 50
	defaultMessageOffset = 0
)

// MessageHandler appends and lists chat messages.
type MessageHandler struct {
	messages repositories.MessageRepository
	chats    repositories.ChatRepository
	hub      *ws.Hub
	audit    *telemetry.AuditEmitter
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(messages repositories.MessageRepository, chats repositories.ChatRepository, hub *ws.Hub, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{messages: messages, chats: chats, hub: hub, audit: audit}
}

type sendMessageRequest struct {
	ChatID          string `json:"chat_id"`
	Content         string `json:"content"`
	TypingDuration  *int   `json:"typing_duration"`
	PauseBeforeSend *int   `json:"pause_before_send"`
}

// Send appends a message to a chat the caller belongs to, bumps the chat's
// activity timestamp and broadcasts the message to connected clients.
func (h *MessageHandler) Send(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	chatID, err := uuid.Parse(req.ChatID)
	if err != nil {
		respondError(c, apperr.Validation("chat_id must be a valid chat id"))
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(c, apperr.Validation("content is required"))
		return
	}
	if utf8.RuneCountInString(content) > models.MaxMessageLength {
		respondError(c, apperr.Validation("content exceeds 1000 characters"))
		return
	}

	ctx := c.Request.Context()
	if err := h.requireMembership(c, chatID, userID); err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.messages.Create(ctx, chatID, userID, content, req.TypingDuration, req.PauseBeforeSend)
	if err != nil {
		logger.Error("message create failed", "request_id", requestID, "chat_id", chatID, "error", err)
		respondError(c, apperr.Persistence(err))
		return
	}
	if err := h.chats.TouchChat(ctx, chatID); err != nil {
		logger.Warn("chat touch failed", "request_id", requestID, "chat_id", chatID, "error", err)
	}

	h.hub.BroadcastMessage(chatID, msg)
	observability.IncMessageSent()
	h.audit.Emit(ctx, "info", "message sent", requestID, auditUserID(userID))
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// List returns a page of messages ordered oldest first and marks everything
// the caller has not yet read as read.
func (h *MessageHandler) List(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chatID, err := uuid.Parse(c.Query("chat_id"))
	if err != nil {
		respondError(c, apperr.Validation("chat_id is required"))
		return
	}
	limit := intQuery(c, "limit", defaultMessageLimit)
	offset := intQuery(c, "offset", defaultMessageOffset)

	ctx := c.Request.Context()
	if err := h.requireMembership(c, chatID, userID); err != nil {
		respondError(c, err)
		return
	}

	msgs, err := h.messages.ListByChat(ctx, chatID, limit, offset)
	if err != nil {
		logger.Error("message list failed", "request_id", requestID, "chat_id", chatID, "error", err)
		respondError(c, apperr.Persistence(err))
		return
	}

	if len(msgs) > 0 {
		if err := h.messages.MarkRead(ctx, chatID, userID); err != nil {
			logger.Warn("mark read failed", "request_id", requestID, "chat_id", chatID, "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// requireMembership distinguishes a missing chat from a chat the caller is
// simply not part of.
func (h *MessageHandler) requireMembership(c *gin.Context, chatID, userID uuid.UUID) error {
	ctx := c.Request.Context()
	member, err := h.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		return apperr.Persistence(err)
	}
	if member {
		return nil
	}
	if _, err := h.chats.GetChat(ctx, chatID); errors.Is(err, repositories.ErrChatNotFound) {
		return apperr.NotFound("chat not found")
	}
	return apperr.Authorization("not a member of this chat")
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}
