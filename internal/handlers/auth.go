package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soulmatch-service/internal/auth"
	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/telemetry"
)

// AuthHandler exposes account registration, login and token refresh.
type AuthHandler struct {
	auth  *auth.Service
	audit *telemetry.AuditEmitter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *auth.Service, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{auth: authService, audit: audit}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and returns the user with its first session.
func (h *AuthHandler) Register(c *gin.Context) {
	requestID := requestIDFromContext(c)

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, session, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("register failed", "request_id", requestID, "error", err)
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "info", "user registered", requestID, auditUserID(user.ID))
	c.JSON(http.StatusCreated, gin.H{"user": user, "session": session})
}

// Login verifies credentials and returns a session.
func (h *AuthHandler) Login(c *gin.Context) {
	requestID := requestIDFromContext(c)

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login failed", "request_id", requestID, "error", err)
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "info", "user logged in", requestID, auditUserID(user.ID))
	c.JSON(http.StatusOK, gin.H{"user": user, "session": session})
}

// Refresh rotates a refresh token and returns a new session.
func (h *AuthHandler) Refresh(c *gin.Context) {
	requestID := requestIDFromContext(c)

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, session, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		logger.Warn("token refresh failed", "request_id", requestID, "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "session": session})
}
