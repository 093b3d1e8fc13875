package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"propchat/backend/internal/models"
)

// GetProperty implements PropertyRegistry against the properties table the
// listing service maintains.
func (s *Service) GetProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	var property models.Property
	err := s.DB.WithContext(ctx).First(&property, "id = ?", propertyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}
