package entity

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lead represents a pre-sales prospect. Qualified leads convert to clients.
type Lead struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	CompanyName       *string         `gorm:"size:255" json:"company_name,omitempty"`
	Email             *string         `gorm:"size:255" json:"email,omitempty"`
	Phone             *string         `gorm:"size:50" json:"phone,omitempty"`
	Source            *string         `gorm:"size:100" json:"source,omitempty"`
	Status            enum.LeadStatus `gorm:"default:0" json:"status"`
	Notes             *string         `gorm:"type:text" json:"notes,omitempty"`
	ConvertedClientID *uuid.UUID      `gorm:"type:uuid" json:"converted_client_id,omitempty"`
	CreatedBy         uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new lead
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Lead model
func (Lead) TableName() string {
	return "leads"
}
