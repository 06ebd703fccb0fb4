package entity

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment represents money applied to exactly one invoice. Records are
// immutable once created; voiding flips the status and preserves the audit
// trail, it never deletes.
type Payment struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PaymentNumber string             `gorm:"size:50;unique;not null" json:"payment_number"`
	InvoiceID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount        decimal.Decimal    `gorm:"type:numeric(15,2);not null" json:"amount"`
	Mode          enum.PaymentMode   `gorm:"default:0" json:"mode"`
	PaidOn        time.Time          `gorm:"type:date;not null" json:"paid_on"`
	Reference     *string            `gorm:"size:255" json:"reference,omitempty"`
	Status        enum.PaymentStatus `gorm:"default:0" json:"status"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	VoidReason    *string            `gorm:"size:255" json:"void_reason,omitempty"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// IsActive reports whether the payment still counts toward the invoice balance
func (p *Payment) IsActive() bool {
	return p.Status == enum.PaymentStatusCompleted
}

// MarkVoided voids the payment, preserving the record
func (p *Payment) MarkVoided(reason string) {
	now := time.Now()
	p.Status = enum.PaymentStatusVoided
	p.VoidedAt = &now
	if reason != "" {
		p.VoidReason = &reason
	}
}
