package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"soulmatch-service/internal/models"
	"soulmatch-service/internal/repositories"
)

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) FindNormalChatByPair(ctx context.Context, userID, otherID uuid.UUID) (models.Chat, error) {
	args := m.Called(ctx, userID, otherID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) CreateChatWithMembers(ctx context.Context, mode string, pairKey *string, memberIDs []uuid.UUID) (models.Chat, error) {
	args := m.Called(ctx, mode, pairKey, memberIDs)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID uuid.UUID) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListChatsForUser(ctx context.Context, userID uuid.UUID) ([]models.ChatSummary, error) {
	args := m.Called(ctx, userID)
	var list []models.ChatSummary
	if val := args.Get(0); val != nil {
		list = val.([]models.ChatSummary)
	}
	return list, args.Error(1)
}

func (m *ChatRepositoryMock) ChatIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	var ids []uuid.UUID
	if val := args.Get(0); val != nil {
		ids = val.([]uuid.UUID)
	}
	return ids, args.Error(1)
}

func (m *ChatRepositoryMock) TouchChat(ctx context.Context, chatID uuid.UUID) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, chatID, senderID uuid.UUID, content string, typingDuration, pauseBeforeSend *int) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, content, typingDuration, pauseBeforeSend)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, limit, offset)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, chatID, readerID uuid.UUID) error {
	args := m.Called(ctx, chatID, readerID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) Recent(ctx context.Context, chatID uuid.UUID, limit int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, limit)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type InsightRepositoryMock struct {
	mock.Mock
}

func (m *InsightRepositoryMock) Create(ctx context.Context, insight models.Insight) (models.Insight, error) {
	args := m.Called(ctx, insight)
	var saved models.Insight
	if val := args.Get(0); val != nil {
		saved = val.(models.Insight)
	}
	return saved, args.Error(1)
}

func (m *InsightRepositoryMock) ListByChat(ctx context.Context, chatID uuid.UUID, limit int) ([]models.Insight, error) {
	args := m.Called(ctx, chatID, limit)
	var insights []models.Insight
	if val := args.Get(0); val != nil {
		insights = val.([]models.Insight)
	}
	return insights, args.Error(1)
}

func (m *InsightRepositoryMock) ListByChats(ctx context.Context, chatIDs []uuid.UUID, limit int) ([]models.Insight, error) {
	args := m.Called(ctx, chatIDs, limit)
	var insights []models.Insight
	if val := args.Get(0); val != nil {
		insights = val.([]models.Insight)
	}
	return insights, args.Error(1)
}

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) Upsert(ctx context.Context, profile models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) Get(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	args := m.Called(ctx, id)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) Reserve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProfileRepositoryMock) MysteryCandidates(ctx context.Context, exclude uuid.UUID, limit int) ([]uuid.UUID, error) {
	args := m.Called(ctx, exclude, limit)
	var ids []uuid.UUID
	if val := args.Get(0); val != nil {
		ids = val.([]uuid.UUID)
	}
	return ids, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) SaveToken(ctx context.Context, token models.UserToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetToken(ctx context.Context, refreshToken string) (models.UserToken, error) {
	args := m.Called(ctx, refreshToken)
	var token models.UserToken
	if val := args.Get(0); val != nil {
		token = val.(models.UserToken)
	}
	return token, args.Error(1)
}

func (m *UserRepositoryMock) DeleteToken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	var id uuid.UUID
	if val := args.Get(0); val != nil {
		id = val.(uuid.UUID)
	}
	return id, args.Error(1)
}

var _ repositories.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.InsightRepository = (*InsightRepositoryMock)(nil)
var _ repositories.ProfileRepository = (*ProfileRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
