package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"soulmatch-service/internal/insights"
	"soulmatch-service/internal/mocks"
	"soulmatch-service/internal/models"
)

func newInsightRouter(userID uuid.UUID, insightRepo *mocks.InsightRepositoryMock, messages *mocks.MessageRepositoryMock, chats *mocks.ChatRepositoryMock) *gin.Engine {
	generator := insights.NewHeuristicGeneratorWithJitter(func() float64 { return 0 })
	handler := NewInsightHandler(insightRepo, messages, chats, generator, nil)
	router := authedRouter(userID)
	router.POST("/insights", handler.Generate)
	router.GET("/insights", handler.List)
	return router
}

func messagesOfLength(chatID uuid.UUID, lengths ...int) []models.Message {
	msgs := make([]models.Message, 0, len(lengths))
	for _, l := range lengths {
		msgs = append(msgs, models.Message{ID: uuid.New(), ChatID: chatID, Content: strings.Repeat("x", l)})
	}
	return msgs
}

func TestGenerateInsightPersistsDerivedScores(t *testing.T) {
	userID, chatID := uuid.New(), uuid.New()

	chats := new(mocks.ChatRepositoryMock)
	chats.On("IsMember", mock.Anything, chatID, userID).Return(true, nil)

	messages := new(mocks.MessageRepositoryMock)
	messages.On("Recent", mock.Anything, chatID, insightMessageWindow).
		Return(messagesOfLength(chatID, 10, 60, 20, 80, 30), nil)

	insightRepo := new(mocks.InsightRepositoryMock)
	insightRepo.On("Create", mock.Anything, mock.MatchedBy(func(in models.Insight) bool {
		return in.ChatID == chatID &&
			in.EngagementScore == 30 &&
			in.CompatibilityScore == 24 &&
			in.MessageLength == 40 &&
			in.EmotionalTone == "positive" &&
			len(in.Observations) == 3
	})).Return(models.Insight{ID: uuid.New(), ChatID: chatID, EngagementScore: 30}, nil)

	router := newInsightRouter(userID, insightRepo, messages, chats)
	rec := doJSON(t, router, http.MethodPost, "/insights", gin.H{"chat_id": chatID.String()})

	requireStatus(t, rec, http.StatusCreated)
	insightRepo.AssertExpectations(t)
}

func TestGenerateInsightNotEnoughMessages(t *testing.T) {
	userID, chatID := uuid.New(), uuid.New()

	chats := new(mocks.ChatRepositoryMock)
	chats.On("IsMember", mock.Anything, chatID, userID).Return(true, nil)

	messages := new(mocks.MessageRepositoryMock)
	messages.On("Recent", mock.Anything, chatID, insightMessageWindow).
		Return(messagesOfLength(chatID, 5, 5, 5), nil)

	insightRepo := new(mocks.InsightRepositoryMock)
	router := newInsightRouter(userID, insightRepo, messages, chats)
	rec := doJSON(t, router, http.MethodPost, "/insights", gin.H{"chat_id": chatID.String()})

	requireStatus(t, rec, http.StatusBadRequest)
	body := decodeBody(t, rec)
	assert.Equal(t, "not enough messages to generate insights", body["error"])
	insightRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateInsightRejectsNonMember(t *testing.T) {
	userID, chatID := uuid.New(), uuid.New()

	chats := new(mocks.ChatRepositoryMock)
	chats.On("IsMember", mock.Anything, chatID, userID).Return(false, nil)

	messages := new(mocks.MessageRepositoryMock)
	router := newInsightRouter(userID, new(mocks.InsightRepositoryMock), messages, chats)
	rec := doJSON(t, router, http.MethodPost, "/insights", gin.H{"chat_id": chatID.String()})

	requireStatus(t, rec, http.StatusForbidden)
	messages.AssertNotCalled(t, "Recent", mock.Anything, mock.Anything, mock.Anything)
}

func TestListInsightsForChat(t *testing.T) {
	userID, chatID := uuid.New(), uuid.New()
	list := []models.Insight{{ID: uuid.New(), ChatID: chatID, EngagementScore: 55}}

	chats := new(mocks.ChatRepositoryMock)
	chats.On("IsMember", mock.Anything, chatID, userID).Return(true, nil)

	insightRepo := new(mocks.InsightRepositoryMock)
	insightRepo.On("ListByChat", mock.Anything, chatID, defaultInsightLimit).Return(list, nil)

	router := newInsightRouter(userID, insightRepo, new(mocks.MessageRepositoryMock), chats)
	rec := doJSON(t, router, http.MethodGet, "/insights?chat_id="+chatID.String(), nil)

	requireStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	require.Len(t, body["insights"].([]any), 1)
}

func TestListInsightsAcrossChats(t *testing.T) {
	userID := uuid.New()
	chatIDs := []uuid.UUID{uuid.New(), uuid.New()}

	chats := new(mocks.ChatRepositoryMock)
	chats.On("ChatIDsForUser", mock.Anything, userID).Return(chatIDs, nil)

	insightRepo := new(mocks.InsightRepositoryMock)
	insightRepo.On("ListByChats", mock.Anything, chatIDs, 3).
		Return([]models.Insight{{ID: uuid.New(), ChatID: chatIDs[0]}}, nil)

	router := newInsightRouter(userID, insightRepo, new(mocks.MessageRepositoryMock), chats)
	rec := doJSON(t, router, http.MethodGet, "/insights?limit=3", nil)

	requireStatus(t, rec, http.StatusOK)
	insightRepo.AssertExpectations(t)
}

func TestListInsightsNoChatsReturnsEmptyList(t *testing.T) {
	userID := uuid.New()

	chats := new(mocks.ChatRepositoryMock)
	chats.On("ChatIDsForUser", mock.Anything, userID).Return([]uuid.UUID{}, nil)

	insightRepo := new(mocks.InsightRepositoryMock)
	router := newInsightRouter(userID, insightRepo, new(mocks.MessageRepositoryMock), chats)
	rec := doJSON(t, router, http.MethodGet, "/insights", nil)

	requireStatus(t, rec, http.StatusOK)
	body := decodeBody(t, rec)
	assert.Empty(t, body["insights"])
	insightRepo.AssertNotCalled(t, "ListByChats", mock.Anything, mock.Anything, mock.Anything)
}
