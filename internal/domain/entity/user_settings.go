package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings holds per-user document defaults applied when a new
// quotation or invoice is created without explicit dates or tax components
type UserSettings struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	QuotationValidityDays int       `gorm:"default:30" json:"quotation_validity_days"`
	InvoiceDueDays        int       `gorm:"default:15" json:"invoice_due_days"`
	DefaultTaxRates       TaxRates  `gorm:"type:jsonb" json:"default_tax_rates"`
	CurrencySymbol        string    `gorm:"size:10;default:'₹'" json:"currency_symbol"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}
