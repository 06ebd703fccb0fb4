package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository defines the interface for idempotency key storage
type IdempotencyRepository interface {
	Get(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Save(ctx context.Context, record *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
