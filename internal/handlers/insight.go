package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"soulmatch-service/internal/apperr"
	"soulmatch-service/internal/insights"
	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/observability"
	"soulmatch-service/internal/repositories"
	"soulmatch-service/internal/telemetry"
)

const (
	insightMessageWindow = 50
	defaultInsightLimit  = 10
)

// InsightHandler derives and lists chat insights.
type InsightHandler struct {
	insights  repositories.InsightRepository
	messages  repositories.MessageRepository
	chats     repositories.ChatRepository
	generator insights.Generator
	audit     *telemetry.AuditEmitter
}

// NewInsightHandler constructs an InsightHandler.
func NewInsightHandler(insightRepo repositories.InsightRepository, messages repositories.MessageRepository, chats repositories.ChatRepository, generator insights.Generator, audit *telemetry.AuditEmitter) *InsightHandler {
	return &InsightHandler{
		insights:  insightRepo,
		messages:  messages,
		chats:     chats,
		generator: generator,
		audit:     audit,
	}
}

type generateInsightRequest struct {
	ChatID string `json:"chat_id"`
}

// Generate derives an insight from the chat's recent messages and persists it.
func (h *InsightHandler) Generate(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req generateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	chatID, err := uuid.Parse(req.ChatID)
	if err != nil {
		respondError(c, apperr.Validation("chat_id must be a valid chat id"))
		return
	}

	ctx := c.Request.Context()
	member, err := h.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		respondError(c, apperr.Persistence(err))
		return
	}
	if !member {
		respondError(c, apperr.Authorization("not a member of this chat"))
		return
	}

	msgs, err := h.messages.Recent(ctx, chatID, insightMessageWindow)
	if err != nil {
		respondError(c, apperr.Persistence(err))
		return
	}

	result, err := h.generator.Generate(msgs)
	if errors.Is(err, insights.ErrNotEnoughMessages) {
		respondError(c, apperr.Validation("not enough messages to generate insights"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	insight := models.Insight{
		ChatID:             chatID,
		EngagementScore:    result.EngagementScore,
		EmotionalTone:      result.EmotionalTone,
		ResponseTime:       result.AvgResponseTime,
		MessageLength:      result.AvgMessageLength,
		EditFrequency:      result.EditFrequency,
		CompatibilityScore: result.CompatibilityScore,
		Observations:       pq.StringArray(result.Observations),
	}
	saved, err := h.insights.Create(ctx, insight)
	if err != nil {
		logger.Error("insight create failed", "request_id", requestID, "chat_id", chatID, "error", err)
		respondError(c, apperr.Persistence(err))
		return
	}

	observability.IncInsightGenerated()
	h.audit.Emit(ctx, "info", "insight generated", requestID, auditUserID(userID))
	c.JSON(http.StatusCreated, gin.H{"insight": saved})
}

// List returns recent insights for one chat, or across all the caller's
// chats when no chat_id is given.
func (h *InsightHandler) List(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	limit := intQuery(c, "limit", defaultInsightLimit)

	var (
		list []models.Insight
		err  error
	)
	if raw := c.Query("chat_id"); raw != "" {
		chatID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			respondError(c, apperr.Validation("chat_id must be a valid chat id"))
			return
		}
		member, memberErr := h.chats.IsMember(ctx, chatID, userID)
		if memberErr != nil {
			respondError(c, apperr.Persistence(memberErr))
			return
		}
		if !member {
			respondError(c, apperr.Authorization("not a member of this chat"))
			return
		}
		list, err = h.insights.ListByChat(ctx, chatID, limit)
	} else {
		var chatIDs []uuid.UUID
		chatIDs, err = h.chats.ChatIDsForUser(ctx, userID)
		if err == nil {
			if len(chatIDs) == 0 {
				c.JSON(http.StatusOK, gin.H{"insights": []models.Insight{}})
				return
			}
			list, err = h.insights.ListByChats(ctx, chatIDs, limit)
		}
	}
	if err != nil {
		logger.Error("insight list failed", "request_id", requestID, "user_id", userID, "error", err)
		respondError(c, apperr.Persistence(err))
		return
	}

	if list == nil {
		list = []models.Insight{}
	}
	c.JSON(http.StatusOK, gin.H{"insights": list})
}
