package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.StringArray
	"gorm.io/gorm"
)

// Role is the coarse sender role recorded on a message. Identity lives in
// SenderName / the caller id, not here.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ChatSession represents one support conversation about one property between
// a user and the admin responsible for that property. Sessions are never
// physically deleted; closing is terminal.
type ChatSession struct {
	// ID is the unique identifier for the chat session (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// PropertyID references the property the chat concerns. Read-only after creation.
	PropertyID string `gorm:"type:uuid;not null;index;uniqueIndex:idx_open_pair,where:is_closed = false" json:"propertyId"`
	// UserID is the requesting user who opened the chat. Together with
	// PropertyID it forms the idempotency key for open sessions.
	UserID string `gorm:"not null;uniqueIndex:idx_open_pair,where:is_closed = false" json:"userId"`
	// Participants holds the ids of users who may post and read.
	Participants pq.StringArray `gorm:"type:text[]" json:"users"`
	// AdminID is the admin resolved from the property's owning entity at creation.
	AdminID string `gorm:"not null;index" json:"adminId"`
	// Messages is the append-only, chronologically ordered log.
	Messages []ChatMessage `gorm:"foreignKey:ChatID" json:"messages"`
	// IsClosed is monotonic: once true, the session never reopens.
	IsClosed bool `gorm:"not null;default:false" json:"isClosed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that assigns a fresh UUID when none is set.
func (s *ChatSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// HasParticipant reports whether the given user id may post to this session.
func (s *ChatSession) HasParticipant(userID string) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ChatMessage is a single immutable entry in a session's message log.
// Insertion order equals chronological order; rows are never updated.
type ChatMessage struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	ChatID string `gorm:"type:uuid;not null;index:idx_chat_msg" json:"-"`
	// Sender is the coarse role of the author ("user" or "admin").
	Sender Role `gorm:"type:text;not null" json:"sender"`
	// SenderName is the author's display name at the time of posting.
	// Denormalized on purpose: a later rename does not rewrite history.
	SenderName string `gorm:"type:text;not null" json:"senderName"`
	// Content is the non-empty text payload.
	Content string `gorm:"type:text;not null" json:"content"`
	// Timestamp is server-assigned and non-decreasing within a session.
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// EmptyContent reports whether the payload is empty or whitespace only.
func EmptyContent(content string) bool {
	return strings.TrimSpace(content) == ""
}
