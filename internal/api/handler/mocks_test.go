package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"propchat/backend/internal/models"
	"propchat/backend/internal/roomhub"
)

// MockChatService is a mock implementation of the handler.ChatService interface.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) StartChat(ctx context.Context, userID, userName, propertyID string) (*models.ChatSession, error) {
	args := m.Called(ctx, userID, userName, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatService) PostMessage(ctx context.Context, callerID, callerName string, role models.Role, chatID, content string) (*models.ChatMessage, error) {
	args := m.Called(ctx, callerID, callerName, role, chatID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockChatService) CloseChat(ctx context.Context, adminID, chatID string) (*models.ChatSession, error) {
	args := m.Called(ctx, adminID, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatService) GetChatForParticipant(ctx context.Context, callerID string, role models.Role, chatID string) (*models.ChatSession, error) {
	args := m.Called(ctx, callerID, role, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatService) ListChatsForUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

func (m *MockChatService) ListOpenChatsForAdmin(ctx context.Context, adminID string) ([]models.ChatSession, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

// stubHub satisfies roomhub.Hub for routes that never touch the hub.
type stubHub struct{}

func (stubHub) Join(s roomhub.Session, roomID string)                               {}
func (stubHub) Leave(s roomhub.Session, roomID string)                              {}
func (stubHub) LeaveAll(s roomhub.Session)                                          {}
func (stubHub) Broadcast(roomID, event string, payload any)                         {}
func (stubHub) BroadcastExcept(roomID, event string, payload any, s roomhub.Session) {}
