package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed write requests so that a replayed request
// (retries, offline queue drains) returns the original response instead of
// being applied twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key          string    `gorm:"uniqueIndex;size:255;not null" json:"key"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Endpoint     string    `gorm:"size:255;not null" json:"endpoint"`
	ResponseCode int       `gorm:"not null" json:"response_code"`
	ResponseBody string    `gorm:"type:text" json:"response_body"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`
}

// BeforeCreate generates a UUID before creating a new key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
