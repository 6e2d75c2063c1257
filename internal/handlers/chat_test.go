package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"soulmatch-service/internal/mocks"
	"soulmatch-service/internal/models"
	"soulmatch-service/internal/repositories"
)

func newChatRouter(userID uuid.UUID, chats *mocks.ChatRepositoryMock, profiles *mocks.ProfileRepositoryMock) *gin.Engine {
	handler := NewChatHandler(chats, profiles, nil)
	router := authedRouter(userID)
	router.POST("/chats", handler.Create)
	router.GET("/chats", handler.List)
	return router
}

func TestCreateNormalChatIsIdempotent(t *testing.T) {
	userID, otherID := uuid.New(), uuid.New()
	existing := models.Chat{ID: uuid.New(), Mode: models.ModeNormal, Status: "active"}

	chats := new(mocks.ChatRepositoryMock)
	chats.On("FindNormalChatByPair", mock.Anything, userID, otherID).Return(existing, nil)

	router := newChatRouter(userID, chats, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodPost, "/chats", gin.H{
		"mode":        models.ModeNormal,
		"otherUserId": otherID.String(),
	})

	requireStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	chat := body["chat"].(map[string]any)
	assert.Equal(t, existing.ID.String(), chat["id"])
	chats.AssertNotCalled(t, "CreateChatWithMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateNormalChatCreatesWhenMissing(t *testing.T) {
	userID, otherID := uuid.New(), uuid.New()
	created := models.Chat{ID: uuid.New(), Mode: models.ModeNormal, Status: "active"}
	pairKey := repositories.PairKey(userID, otherID)

	chats := new(mocks.ChatRepositoryMock)
	chats.On("FindNormalChatByPair", mock.Anything, userID, otherID).
		Return(models.Chat{}, repositories.ErrChatNotFound)
	chats.On("CreateChatWithMembers", mock.Anything, models.ModeNormal, &pairKey, []uuid.UUID{userID, otherID}).
		Return(created, nil)

	router := newChatRouter(userID, chats, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodPost, "/chats", gin.H{
		"mode":        models.ModeNormal,
		"otherUserId": otherID.String(),
	})

	requireStatus(t, rec, http.StatusCreated)
	chats.AssertExpectations(t)
}

func TestCreateNormalChatLosingRaceReturnsWinner(t *testing.T) {
	userID, otherID := uuid.New(), uuid.New()
	winner := models.Chat{ID: uuid.New(), Mode: models.ModeNormal, Status: "active"}

	chats := new(mocks.ChatRepositoryMock)
	chats.On("FindNormalChatByPair", mock.Anything, userID, otherID).
		Return(models.Chat{}, repositories.ErrChatNotFound).Once()
	chats.On("CreateChatWithMembers", mock.Anything, models.ModeNormal, mock.Anything, mock.Anything).
		Return(models.Chat{}, repositories.ErrPairExists)
	chats.On("FindNormalChatByPair", mock.Anything, userID, otherID).
		Return(winner, nil).Once()

	router := newChatRouter(userID, chats, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodPost, "/chats", gin.H{
		"mode":        models.ModeNormal,
		"otherUserId": otherID.String(),
	})

	requireStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	chat := body["chat"].(map[string]any)
	assert.Equal(t, winner.ID.String(), chat["id"])
}

func TestCreateChatValidation(t *testing.T) {
	userID := uuid.New()
	cases := []struct {
		name string
		body gin.H
	}{
		{"invalid mode", gin.H{"mode": "speed"}},
		{"normal without other user", gin.H{"mode": models.ModeNormal}},
		{"self pairing", gin.H{"mode": models.ModeNormal, "otherUserId": userID.String()}},
		{"malformed other user id", gin.H{"mode": models.ModeNormal, "otherUserId": "not-a-uuid"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chats := new(mocks.ChatRepositoryMock)
			router := newChatRouter(userID, chats, new(mocks.ProfileRepositoryMock))

			rec := doJSON(t, router, http.MethodPost, "/chats", tc.body)

			requireStatus(t, rec, http.StatusBadRequest)
			chats.AssertNotCalled(t, "CreateChatWithMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateMysteryChatNoCandidates(t *testing.T) {
	userID := uuid.New()

	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("MysteryCandidates", mock.Anything, userID, mysteryCandidateLimit).
		Return([]uuid.UUID{}, nil)

	chats := new(mocks.ChatRepositoryMock)
	router := newChatRouter(userID, chats, profiles)
	rec := doJSON(t, router, http.MethodPost, "/chats", gin.H{"mode": models.ModeMystery})

	requireStatus(t, rec, http.StatusNotFound)
	body := decodeBody(t, rec)
	assert.Equal(t, "no partner available", body["error"])
	chats.AssertNotCalled(t, "CreateChatWithMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateMysteryChatPairsWithCandidate(t *testing.T) {
	userID := uuid.New()
	candidates := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	created := models.Chat{ID: uuid.New(), Mode: models.ModeMystery, Status: "active"}

	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("MysteryCandidates", mock.Anything, userID, mysteryCandidateLimit).
		Return(candidates, nil)

	chats := new(mocks.ChatRepositoryMock)
	chats.On("CreateChatWithMembers", mock.Anything, models.ModeMystery, (*string)(nil), []uuid.UUID{userID, candidates[1]}).
		Return(created, nil)

	handler := NewChatHandler(chats, profiles, nil)
	handler.pick = func(n int) int {
		require.Equal(t, len(candidates), n)
		return 1
	}
	router := authedRouter(userID)
	router.POST("/chats", handler.Create)

	rec := doJSON(t, router, http.MethodPost, "/chats", gin.H{"mode": models.ModeMystery})

	requireStatus(t, rec, http.StatusCreated)
	chats.AssertExpectations(t)
}

func TestListChatsShowsCounterpart(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()
	summaries := []models.ChatSummary{
		{ID: uuid.New(), Mode: models.ModeNormal, Status: "active", OtherUser: &models.OtherUser{ID: other, Nickname: "sam"}},
		{ID: uuid.New(), Mode: models.ModeMystery, Status: "active"},
	}

	chats := new(mocks.ChatRepositoryMock)
	chats.On("ListChatsForUser", mock.Anything, userID).Return(summaries, nil)

	router := newChatRouter(userID, chats, new(mocks.ProfileRepositoryMock))
	rec := doJSON(t, router, http.MethodGet, "/chats", nil)

	requireStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	list := body["chats"].([]any)
	require.Len(t, list, 2)

	first := list[0].(map[string]any)
	otherUser := first["other_user"].(map[string]any)
	assert.Equal(t, "sam", otherUser["nickname"])

	second := list[1].(map[string]any)
	assert.Nil(t, second["other_user"])
}
