package storage

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"propchat/backend/internal/models"
)

// Store is the persistence contract for chat sessions and their message
// logs. Implementations must serialize mutations per session so concurrent
// appends never lose messages and the log stays totally ordered.
type Store interface {
	// CreateSession returns the existing open session for the
	// (userID, propertyID) pair when one exists; otherwise it creates one.
	CreateSession(ctx context.Context, propertyID, userID, adminID string) (*models.ChatSession, error)
	// GetSession loads a session with its full message log.
	GetSession(ctx context.Context, chatID string) (*models.ChatSession, error)
	// AppendMessage appends msg to an open session, assigning the server
	// timestamp. Fails with ErrSessionNotFound or ErrChatClosed.
	AppendMessage(ctx context.Context, chatID string, msg *models.ChatMessage) error
	// CloseSession marks a session closed. The bool result reports whether
	// this call performed the transition; closing an already-closed session
	// is a no-op, not an error.
	CloseSession(ctx context.Context, chatID string) (*models.ChatSession, bool, error)
	// ListSessionsForUser returns the user's sessions, newest activity first.
	ListSessionsForUser(ctx context.Context, userID string) ([]models.ChatSession, error)
	// ListOpenSessionsForAdmin returns the open sessions owned by an admin.
	ListOpenSessionsForAdmin(ctx context.Context, adminID string) ([]models.ChatSession, error)
}

// PropertyRegistry resolves a property to its owning admin. The property
// catalogue itself is maintained by the listing service, not here.
type PropertyRegistry interface {
	GetProperty(ctx context.Context, propertyID string) (*models.Property, error)
}

// Service implements Store and PropertyRegistry on PostgreSQL via GORM.
type Service struct {
	DB *gorm.DB
}

// NewService constructs the persistence service.
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Migrate creates or updates the tables this service owns, including the
// partial unique index that enforces at most one open session per
// (user, property) pair.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.Property{},
	)
}

func (s *Service) CreateSession(ctx context.Context, propertyID, userID, adminID string) (*models.ChatSession, error) {
	if existing, err := s.findOpenSession(ctx, propertyID, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session := &models.ChatSession{
		PropertyID:   propertyID,
		UserID:       userID,
		Participants: pq.StringArray{userID},
		AdminID:      adminID,
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := s.DB.WithContext(ctx).Create(session).Error
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err

		// Lost a race against a concurrent start: the partial unique index
		// on (user_id, property_id) WHERE NOT is_closed rejected the insert,
		// so an open session existed a moment ago. Return it; if the winner
		// already closed again, the next attempt inserts.
		existing, err := s.findOpenSession(ctx, propertyID, userID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (s *Service) findOpenSession(ctx context.Context, propertyID, userID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.DB.WithContext(ctx).
		Preload("Messages", messageOrder).
		Where("property_id = ? AND user_id = ? AND is_closed = ?", propertyID, userID, false).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Service) GetSession(ctx context.Context, chatID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.DB.WithContext(ctx).
		Preload("Messages", messageOrder).
		First(&session, "id = ?", chatID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Service) AppendMessage(ctx context.Context, chatID string, msg *models.ChatMessage) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.ChatSession
		// Row lock serializes concurrent appends and closes on the same
		// session; the insert below commits in lock acquisition order, so
		// timestamps are non-decreasing in log order.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "id = ?", chatID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if session.IsClosed {
			return ErrChatClosed
		}

		msg.ChatID = chatID
		msg.Timestamp = time.Now().UTC()
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		return tx.Model(&session).Update("updated_at", msg.Timestamp).Error
	})
}

func (s *Service) CloseSession(ctx context.Context, chatID string) (*models.ChatSession, bool, error) {
	closed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.ChatSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "id = ?", chatID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if session.IsClosed {
			return nil
		}
		closed = true
		return tx.Model(&session).Update("is_closed", true).Error
	})
	if err != nil {
		return nil, false, err
	}

	session, err := s.GetSession(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	return session, closed, nil
}

func (s *Service) ListSessionsForUser(ctx context.Context, userID string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.DB.WithContext(ctx).
		Where("? = ANY(participants)", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Service) ListOpenSessionsForAdmin(ctx context.Context, adminID string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.DB.WithContext(ctx).
		Where("admin_id = ? AND is_closed = ?", adminID, false).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func messageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
