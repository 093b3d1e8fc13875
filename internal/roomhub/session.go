package roomhub

import (
	"errors"

	"propchat/backend/internal/models"
)

// ErrSendBufferFull is returned by Session.Send when the handle's outbound
// buffer is full or the handle has been closed. Callers treat it as a dead
// recipient and drop the event.
var ErrSendBufferFull = errors.New("session send buffer full or closed")

// Session is a live transport connection the hub can push events to.
// It abstracts the underlying communication mechanism so the hub can manage
// different transport types uniformly.
type Session interface {
	// ID returns the unique identifier of this connection. A user with two
	// tabs open holds two sessions with distinct ids.
	ID() string
	// UserID returns the authenticated user the connection belongs to.
	UserID() string
	// IsAdmin reports whether the connection authenticated as staff.
	IsAdmin() bool

	// Send queues an event for delivery. It never blocks; ErrSendBufferFull
	// signals the handle cannot accept the event.
	Send(evt models.Event) error

	// Close shuts down the session's outbound channel.
	Close()
}
