package repository

import (
	"context"
	"time"

	domainRepo "github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"gorm.io/gorm"
)

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new document counter repository
func NewCounterRepository(db *gorm.DB) domainRepo.CounterRepository {
	return &counterRepository{db: db}
}

// Next performs the increment-and-read as a single upsert so two concurrent
// callers can never observe the same value. The insert seeds a fresh period
// at 1; the conflict branch bumps the existing row.
func (r *counterRepository) Next(ctx context.Context, docType, period string) (int64, error) {
	now := time.Now()
	var last int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_counters (doc_type, period, last_value, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET last_value = document_counters.last_value + 1, updated_at = ?
		RETURNING last_value`,
		docType, period, now, now, now,
	).Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last, nil
}
