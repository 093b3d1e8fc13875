package chat_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propchat/backend/internal/mail"
	"propchat/backend/internal/models"
	"propchat/backend/internal/roomhub"
)

// MockStore is a mock implementation of the storage.Store interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateSession(ctx context.Context, propertyID, userID, adminID string) (*models.ChatSession, error) {
	args := m.Called(ctx, propertyID, userID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockStore) GetSession(ctx context.Context, chatID string) (*models.ChatSession, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockStore) AppendMessage(ctx context.Context, chatID string, msg *models.ChatMessage) error {
	args := m.Called(ctx, chatID, msg)
	return args.Error(0)
}

func (m *MockStore) CloseSession(ctx context.Context, chatID string) (*models.ChatSession, bool, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.ChatSession), args.Bool(1), args.Error(2)
}

func (m *MockStore) ListSessionsForUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

func (m *MockStore) ListOpenSessionsForAdmin(ctx context.Context, adminID string) ([]models.ChatSession, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

// MockRegistry is a mock implementation of the storage.PropertyRegistry interface.
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) GetProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

// MockHub is a mock implementation of the roomhub.Hub interface.
type MockHub struct {
	mock.Mock
}

func (m *MockHub) Join(s roomhub.Session, roomID string) {
	m.Called(s, roomID)
}

func (m *MockHub) Leave(s roomhub.Session, roomID string) {
	m.Called(s, roomID)
}

func (m *MockHub) LeaveAll(s roomhub.Session) {
	m.Called(s)
}

func (m *MockHub) Broadcast(roomID, event string, payload any) {
	m.Called(roomID, event, payload)
}

func (m *MockHub) BroadcastExcept(roomID, event string, payload any, except roomhub.Session) {
	m.Called(roomID, event, payload, except)
}

// MockMailer is a mock implementation of the mail.Mailer interface.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendChatSummary(ctx context.Context, to string, summary mail.Summary) error {
	args := m.Called(ctx, to, summary)
	return args.Error(0)
}
