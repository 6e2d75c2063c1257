package handlers

import (
	"errors"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"soulmatch-service/internal/apperr"
	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/repositories"
	"soulmatch-service/internal/telemetry"
)

const mysteryCandidateLimit = 10

// ChatHandler creates and lists chats.
type ChatHandler struct {
	chats    repositories.ChatRepository
	profiles repositories.ProfileRepository
	audit    *telemetry.AuditEmitter
	pick     func(n int) int
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(chats repositories.ChatRepository, profiles repositories.ProfileRepository, audit *telemetry.AuditEmitter) *ChatHandler {
	return &ChatHandler{chats: chats, profiles: profiles, audit: audit, pick: rand.Intn}
}

type createChatRequest struct {
	Mode        string `json:"mode"`
	OtherUserID string `json:"otherUserId"`
}

// Create opens a chat. Normal mode pairs the caller with a named user and is
// idempotent per pair; mystery mode matches against a random candidate.
func (h *ChatHandler) Create(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !models.ValidMode(req.Mode) {
		respondError(c, apperr.Validation("mode must be mystery or normal"))
		return
	}

	var (
		chat    models.Chat
		created bool
		err     error
	)
	switch req.Mode {
	case models.ModeNormal:
		chat, created, err = h.createNormalChat(c, userID, req.OtherUserID)
	case models.ModeMystery:
		chat, created, err = h.createMysteryChat(c, userID)
	}
	if err != nil {
		logger.Warn("chat create failed", "request_id", requestID, "user_id", userID, "mode", req.Mode, "error", err)
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.audit.Emit(c.Request.Context(), "info", "chat created", requestID, auditUserID(userID))
	}
	c.JSON(status, gin.H{"chat": chat})
}

// createNormalChat returns the existing chat for the pair when there is one,
// otherwise creates it. Losing the pair-key race falls back to the winner.
func (h *ChatHandler) createNormalChat(c *gin.Context, userID uuid.UUID, rawOtherID string) (models.Chat, bool, error) {
	if rawOtherID == "" {
		return models.Chat{}, false, apperr.Validation("otherUserId is required for normal mode")
	}
	otherID, err := uuid.Parse(rawOtherID)
	if err != nil {
		return models.Chat{}, false, apperr.Validation("otherUserId must be a valid user id")
	}
	if otherID == userID {
		return models.Chat{}, false, apperr.Validation("cannot create a chat with yourself")
	}

	ctx := c.Request.Context()
	chat, err := h.chats.FindNormalChatByPair(ctx, userID, otherID)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, repositories.ErrChatNotFound) {
		return models.Chat{}, false, apperr.Persistence(err)
	}

	pairKey := repositories.PairKey(userID, otherID)
	chat, err = h.chats.CreateChatWithMembers(ctx, models.ModeNormal, &pairKey, []uuid.UUID{userID, otherID})
	if errors.Is(err, repositories.ErrPairExists) {
		chat, err = h.chats.FindNormalChatByPair(ctx, userID, otherID)
		if err != nil {
			return models.Chat{}, false, apperr.Persistence(err)
		}
		return chat, false, nil
	}
	if err != nil {
		return models.Chat{}, false, apperr.Persistence(err)
	}
	return chat, true, nil
}

func (h *ChatHandler) createMysteryChat(c *gin.Context, userID uuid.UUID) (models.Chat, bool, error) {
	ctx := c.Request.Context()
	candidates, err := h.profiles.MysteryCandidates(ctx, userID, mysteryCandidateLimit)
	if err != nil {
		return models.Chat{}, false, apperr.Persistence(err)
	}
	if len(candidates) == 0 {
		return models.Chat{}, false, apperr.NotFound("no partner available")
	}

	partnerID := candidates[h.pick(len(candidates))]
	chat, err := h.chats.CreateChatWithMembers(ctx, models.ModeMystery, nil, []uuid.UUID{userID, partnerID})
	if err != nil {
		return models.Chat{}, false, apperr.Persistence(err)
	}
	return chat, true, nil
}

// List returns the caller's chats, most recently active first.
func (h *ChatHandler) List(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chats, err := h.chats.ListChatsForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("chat list failed", "request_id", requestID, "user_id", userID, "error", err)
		respondError(c, apperr.Persistence(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}
