package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"soulmatch-service/internal/apperr"
	"soulmatch-service/internal/middleware"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// currentUserID extracts the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func auditUserID(id uuid.UUID) *string {
	s := id.String()
	return &s
}

// respondError maps a taxonomy error onto its HTTP status and public message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.PublicMessage(err)})
}
