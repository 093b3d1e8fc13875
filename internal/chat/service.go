package chat

import (
	"context"
	"fmt"
	"time"

	"propchat/backend/internal/logging"
	"propchat/backend/internal/mail"
	"propchat/backend/internal/models"
	"propchat/backend/internal/notify"
	"propchat/backend/internal/roomhub"
	"propchat/backend/internal/storage"
)

const summaryTimeout = 30 * time.Second

// Service is the business logic around chat sessions: it validates and
// authorizes every operation, mutates the store, and only then triggers
// side effects (room broadcasts, admin notifications, the email summary).
// Broadcast and email failures never fail the originating request: by the
// time they run, the mutation is already durably persisted.
type Service struct {
	store      storage.Store
	properties storage.PropertyRegistry
	hub        roomhub.Hub
	dispatcher *notify.Dispatcher
	mailer     mail.Mailer
}

// NewService wires the session service to its collaborators.
func NewService(store storage.Store, properties storage.PropertyRegistry, hub roomhub.Hub, dispatcher *notify.Dispatcher, mailer mail.Mailer) *Service {
	return &Service{
		store:      store,
		properties: properties,
		hub:        hub,
		dispatcher: dispatcher,
		mailer:     mailer,
	}
}

// StartChat opens (or returns the already-open) support chat between the
// requesting user and the admin owning the property, then alerts that
// admin's mailbox room.
func (s *Service) StartChat(ctx context.Context, userID, userName, propertyID string) (*models.ChatSession, error) {
	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	session, err := s.store.CreateSession(ctx, propertyID, userID, property.AdminID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(notify.Notification{
		Kind:       notify.KindNewChat,
		ChatID:     session.ID,
		Message:    fmt.Sprintf("%s started a chat about %s", userName, property.Title),
		TargetRoom: property.AdminID,
	})

	return session, nil
}

// PostMessage appends one message to an open chat on behalf of the caller.
// Validation happens fully before any write; the broadcast follows the
// persisted append, so broadcast order matches commit order.
func (s *Service) PostMessage(ctx context.Context, callerID, callerName string, role models.Role, chatID, content string) (*models.ChatMessage, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if models.EmptyContent(content) {
		return nil, fmt.Errorf("%w: message content is empty", ErrInvalidInput)
	}

	session, err := s.store.GetSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed {
		return nil, ErrChatClosed
	}
	if err := authorize(session, callerID, role); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		Sender:     role,
		SenderName: callerName,
		Content:    content,
	}
	if err := s.store.AppendMessage(ctx, chatID, msg); err != nil {
		// A close can land between the check above and the locked append.
		return nil, err
	}

	s.hub.Broadcast(chatID, models.EventReceiveMessage, msg)

	// An admin who has not joined the chat room yet still learns about user
	// messages through their mailbox room. Admin messages never re-notify.
	if role == models.RoleUser {
		s.dispatcher.Dispatch(notify.Notification{
			Kind:       notify.KindNewMessage,
			ChatID:     chatID,
			Message:    fmt.Sprintf("New message from %s", callerName),
			TargetRoom: session.AdminID,
		})
	}

	return msg, nil
}

// CloseChat transitions an open chat to its terminal closed state. Closing
// an already-closed chat succeeds without re-firing side effects.
func (s *Service) CloseChat(ctx context.Context, adminID, chatID string) (*models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if session.AdminID != adminID {
		return nil, ErrForbidden
	}

	closed, transitioned, err := s.store.CloseSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return closed, nil
	}

	s.hub.Broadcast(chatID, models.EventChatClosed, models.ChatClosedPayload{
		Message: "This chat has been closed by the agent.",
	})
	s.dispatcher.Dispatch(notify.Notification{
		Kind:       notify.KindChatClosed,
		ChatID:     chatID,
		Message:    "Chat closed",
		TargetRoom: adminID,
	})

	s.sendSummary(closed)

	return closed, nil
}

// GetChatForParticipant loads a chat for a caller who may read it.
func (s *Service) GetChatForParticipant(ctx context.Context, callerID string, role models.Role, chatID string) (*models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := authorize(session, callerID, role); err != nil {
		return nil, err
	}
	return session, nil
}

// ListChatsForUser returns the caller's chat history, newest first.
func (s *Service) ListChatsForUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	return s.store.ListSessionsForUser(ctx, userID)
}

// ListOpenChatsForAdmin is the server-side source of truth for "which chats
// are open for me": reconnecting admin clients rebuild from this, never from
// client-cached state.
func (s *Service) ListOpenChatsForAdmin(ctx context.Context, adminID string) ([]models.ChatSession, error) {
	return s.store.ListOpenSessionsForAdmin(ctx, adminID)
}

func authorize(session *models.ChatSession, callerID string, role models.Role) error {
	switch role {
	case models.RoleAdmin:
		if session.AdminID != callerID {
			return ErrForbidden
		}
	case models.RoleUser:
		if !session.HasParticipant(callerID) {
			return ErrForbidden
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return nil
}

// sendSummary emails the full persisted message log to the owning admin,
// fire and forget: failure is logged and never reverses the close.
func (s *Service) sendSummary(session *models.ChatSession) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
		defer cancel()

		summary := mail.Summary{
			ChatID:       session.ID,
			Participants: participantNames(session),
			ClosedAt:     session.UpdatedAt,
			Messages:     session.Messages,
		}

		var to string
		if property, err := s.properties.GetProperty(ctx, session.PropertyID); err == nil {
			summary.PropertyTitle = property.Title
			to = property.AdminEmail
		} else {
			logging.L().Warn().Err(err).
				Str("chat_id", session.ID).
				Msg("could not resolve property for chat summary")
		}

		if err := s.mailer.SendChatSummary(ctx, to, summary); err != nil {
			logging.L().Error().Err(err).
				Str("chat_id", session.ID).
				Msg("chat summary email failed")
		}
	}()
}

// participantNames collects the distinct display names observed in the log,
// in order of first appearance.
func participantNames(session *models.ChatSession) []string {
	seen := make(map[string]struct{}, 2)
	var names []string
	for _, m := range session.Messages {
		if _, ok := seen[m.SenderName]; ok {
			continue
		}
		seen[m.SenderName] = struct{}{}
		names = append(names, m.SenderName)
	}
	return names
}
