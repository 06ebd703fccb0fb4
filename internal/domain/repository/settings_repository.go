package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/google/uuid"
)

// SettingsRepository defines the interface for user settings data access
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error)
	Upsert(ctx context.Context, settings *entity.UserSettings) error
}
