package storage

import "errors"

var (
	// ErrSessionNotFound means no chat session exists for the given id.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrPropertyNotFound means the referenced property does not exist.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrChatClosed means the session is closed and rejects new messages.
	ErrChatClosed = errors.New("chat is closed")
)
