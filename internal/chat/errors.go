package chat

import (
	"errors"

	"propchat/backend/internal/storage"
)

// Service-level error taxonomy. Store-level sentinels surface unchanged so
// callers only need errors.Is against this package.
var (
	// ErrChatNotFound: no session exists for the id.
	ErrChatNotFound = storage.ErrSessionNotFound
	// ErrPropertyNotFound: startChat referenced an unknown property.
	ErrPropertyNotFound = storage.ErrPropertyNotFound
	// ErrChatClosed: the session is closed and rejects new messages.
	ErrChatClosed = storage.ErrChatClosed
	// ErrForbidden: the caller is neither a participant nor the owning admin.
	ErrForbidden = errors.New("caller may not access this chat")
	// ErrInvalidInput: empty content or malformed role.
	ErrInvalidInput = errors.New("invalid input")
)
