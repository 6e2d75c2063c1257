package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"soulmatch-service/internal/auth"
	"soulmatch-service/internal/mocks"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/repositories"
)

func newAuthRouter(users *mocks.UserRepositoryMock, profiles *mocks.ProfileRepositoryMock) *gin.Engine {
	service := auth.NewService(users, profiles, "test-secret", time.Hour, 24*time.Hour)
	handler := NewAuthHandler(service, nil)

	router := gin.New()
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/refresh", handler.Refresh)
	return router
}

func TestRegisterReturnsUserAndSession(t *testing.T) {
	userID := uuid.New()

	users := new(mocks.UserRepositoryMock)
	users.On("CreateUser", mock.Anything, "new@example.com", mock.Anything).
		Return(models.User{ID: userID, Email: "new@example.com"}, nil)
	users.On("SaveToken", mock.Anything, mock.Anything).Return(nil)

	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("Reserve", mock.Anything, userID).Return(nil)

	router := newAuthRouter(users, profiles)
	rec := doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    " New@Example.com ",
		"password": "hunter22",
	})

	requireStatus(t, rec, http.StatusCreated)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "new@example.com", user["email"])

	session := body["session"].(map[string]any)
	assert.NotEmpty(t, session["access_token"])
	assert.NotEmpty(t, session["refresh_token"])
	profiles.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("CreateUser", mock.Anything, "taken@example.com", mock.Anything).
		Return(models.User{}, repositories.ErrEmailTaken)

	router := newAuthRouter(users, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    "taken@example.com",
		"password": "hunter22",
	})

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestRegisterShortPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := newAuthRouter(users, new(mocks.ProfileRepositoryMock))

	rec := doJSON(t, router, http.MethodPost, "/auth/register", gin.H{
		"email":    "new@example.com",
		"password": "short",
	})

	requireStatus(t, rec, http.StatusBadRequest)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.UserRepositoryMock)
	users.On("GetUserByEmail", mock.Anything, "sam@example.com").
		Return(models.User{ID: uuid.New(), Email: "sam@example.com", PasswordHash: string(hash)}, nil)

	router := newAuthRouter(users, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodPost, "/auth/login", gin.H{
		"email":    "sam@example.com",
		"password": "battery-staple",
	})

	requireStatus(t, rec, http.StatusUnauthorized)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid credentials", body["error"])
}

func TestRefreshUnknownToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	users.On("GetToken", mock.Anything, "nope").Return(models.UserToken{}, repositories.ErrTokenNotFound)

	router := newAuthRouter(users, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": "nope"})

	requireStatus(t, rec, http.StatusUnauthorized)
}
