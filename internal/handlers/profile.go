package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"soulmatch-service/internal/apperr"
	"soulmatch-service/internal/logger"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/repositories"
	"soulmatch-service/internal/telemetry"
)

const requiredPhotoCount = 4

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ProfileHandler manages the caller's profile row.
type ProfileHandler struct {
	profiles repositories.ProfileRepository
	audit    *telemetry.AuditEmitter
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles repositories.ProfileRepository, audit *telemetry.AuditEmitter) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, audit: audit}
}

type upsertProfileRequest struct {
	FullName  string         `json:"full_name"`
	Nickname  string         `json:"nickname"`
	DOB       string         `json:"dob"`
	Gender    string         `json:"gender"`
	Bio       string         `json:"bio"`
	Photos    []string       `json:"photos"`
	Interests models.JSONMap `json:"interests"`
	Mode      string         `json:"mode"`
}

// Upsert validates and saves the caller's profile. All checks run before any
// write so a rejected request leaves the stored row untouched.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	requestID := requestIDFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Nickname = strings.TrimSpace(req.Nickname)
	if err := validateProfile(req); err != nil {
		respondError(c, err)
		return
	}

	profile := models.Profile{
		ID:        userID,
		FullName:  req.FullName,
		Nickname:  req.Nickname,
		DOB:       req.DOB,
		Gender:    req.Gender,
		Bio:       req.Bio,
		Photos:    pq.StringArray(req.Photos),
		Interests: req.Interests,
		Mode:      req.Mode,
	}
	if err := h.profiles.Upsert(c.Request.Context(), profile); err != nil {
		logger.Error("profile upsert failed", "request_id", requestID, "user_id", userID, "error", err)
		respondError(c, apperr.Persistence(err))
		return
	}

	h.audit.Emit(c.Request.Context(), "info", "profile saved", requestID, auditUserID(userID))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err == repositories.ErrProfileNotFound {
		respondError(c, apperr.NotFound("profile not found"))
		return
	}
	if err != nil {
		respondError(c, apperr.Persistence(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func validateProfile(req upsertProfileRequest) error {
	if req.FullName == "" {
		return apperr.Validation("full_name is required")
	}
	if req.Nickname == "" {
		return apperr.Validation("nickname is required")
	}
	if !dobPattern.MatchString(req.DOB) {
		return apperr.Validation("dob must be in YYYY-MM-DD format")
	}
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return apperr.Validation("dob must be a valid date")
	}
	if age(dob, time.Now()) < 18 {
		return apperr.Validation("you must be at least 18 years old")
	}
	if !models.ValidGender(req.Gender) {
		return apperr.Validation("gender must be male, female or other")
	}
	if !models.ValidMode(req.Mode) {
		return apperr.Validation("mode must be mystery or normal")
	}
	if len(req.Photos) != requiredPhotoCount {
		return apperr.Validation("exactly 4 photos are required")
	}
	for _, photo := range req.Photos {
		if strings.TrimSpace(photo) == "" {
			return apperr.Validation("photos must be non-empty")
		}
	}
	return nil
}

func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
