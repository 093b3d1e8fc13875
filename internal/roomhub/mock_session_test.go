package roomhub_test

import (
	"propchat/backend/internal/models"
	"propchat/backend/internal/roomhub"
)

// mockSession is a test double for the roomhub.Session interface.
type mockSession struct {
	id     string
	userID string
	admin  bool
	dead   bool
	Recv   chan models.Event
}

func newMockSession(id, userID string) *mockSession {
	return &mockSession{
		id:     id,
		userID: userID,
		Recv:   make(chan models.Event, 10), // Buffered to prevent blocking in tests
	}
}

func (s *mockSession) ID() string {
	return s.id
}

func (s *mockSession) UserID() string {
	return s.userID
}

func (s *mockSession) IsAdmin() bool {
	return s.admin
}

func (s *mockSession) Send(evt models.Event) error {
	if s.dead {
		return roomhub.ErrSendBufferFull
	}
	select {
	case s.Recv <- evt:
		return nil
	default:
		return roomhub.ErrSendBufferFull
	}
}

func (s *mockSession) Close() {
	s.dead = true
}

// drainEvents empties the receive channel (for test cleanup and counting).
func (s *mockSession) drainEvents() []models.Event {
	var events []models.Event
	for {
		select {
		case evt := <-s.Recv:
			events = append(events, evt)
		default:
			return events
		}
	}
}
