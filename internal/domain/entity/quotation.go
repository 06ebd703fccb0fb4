package entity

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/billing"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Quotation represents a price quotation for a client. Totals columns are
// always recomputed from the line items before persistence; they are never
// accepted from input.
type Quotation struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	DocumentNumber string               `gorm:"size:50;unique;not null" json:"document_number"`
	ClientID       uuid.UUID            `gorm:"type:uuid;not null;index" json:"client_id"`
	Status         enum.QuotationStatus `gorm:"default:0" json:"status"`
	IssueDate      time.Time            `gorm:"type:date;not null" json:"issue_date"`
	ValidUntil     *time.Time           `gorm:"type:date" json:"valid_until,omitempty"`
	Subtotal       decimal.Decimal      `gorm:"type:numeric(15,2);default:0" json:"subtotal"`
	DiscountTotal  decimal.Decimal      `gorm:"type:numeric(15,2);default:0" json:"discount_total"`
	TaxTotal       decimal.Decimal      `gorm:"type:numeric(15,2);default:0" json:"tax_total"`
	GrandTotal     decimal.Decimal      `gorm:"type:numeric(15,2);default:0" json:"grand_total"`
	Version        int                  `gorm:"not null;default:1" json:"version"`
	Notes          *string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy      uuid.UUID            `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy      uuid.UUID            `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`

	// Relationships
	Client *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items  []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new quotation
func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Quotation model
func (Quotation) TableName() string {
	return "quotations"
}

// BillingLines converts the quotation's items into calculator input,
// preserving item order
func (q *Quotation) BillingLines() []billing.Line {
	lines := make([]billing.Line, 0, len(q.Items))
	for _, item := range q.Items {
		lines = append(lines, item.BillingLine())
	}
	return lines
}

// QuotationItem represents a priced line item in a quotation
type QuotationItem struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	QuotationID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"quotation_id"`
	Position      int               `gorm:"not null;default:0" json:"position"`
	Kind          enum.ItemKind     `gorm:"default:0" json:"kind"`
	Name          string            `gorm:"size:255;not null" json:"name"`
	Description   *string           `gorm:"type:text" json:"description,omitempty"`
	Quantity      decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"quantity"`
	UnitPrice     decimal.Decimal   `gorm:"type:numeric(15,2);not null" json:"unit_price"`
	DiscountType  enum.DiscountType `gorm:"default:0" json:"discount_type"`
	DiscountValue decimal.Decimal   `gorm:"type:numeric(15,2);default:0" json:"discount_value"`
	TaxRates      TaxRates          `gorm:"type:jsonb" json:"tax_rates"`
	LineTotal     decimal.Decimal   `gorm:"type:numeric(15,2);default:0" json:"line_total"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new quotation item
func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the QuotationItem model
func (QuotationItem) TableName() string {
	return "quotation_items"
}

// BillingLine converts the item into calculator input
func (qi QuotationItem) BillingLine() billing.Line {
	return billing.Line{
		Kind:          qi.Kind,
		Name:          qi.Name,
		Quantity:      qi.Quantity,
		UnitPrice:     qi.UnitPrice,
		DiscountType:  qi.DiscountType,
		DiscountValue: qi.DiscountValue,
		TaxRates:      qi.TaxRates,
	}
}
