package entity

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/billing"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice represents a receivable invoice. Totals are derived from line
// items; AmountPaid and Balance are derived from the non-voided payments and
// recomputed inside the reconciliation transaction.
type Invoice struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	DocumentNumber string             `gorm:"size:50;unique;not null" json:"document_number"`
	ClientID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	QuotationID    *uuid.UUID         `gorm:"type:uuid;index" json:"quotation_id,omitempty"`
	Status         enum.InvoiceStatus `gorm:"default:0" json:"status"`
	IssueDate      time.Time          `gorm:"type:date;not null" json:"issue_date"`
	DueDate        *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	Subtotal       decimal.Decimal    `gorm:"type:numeric(15,2);default:0" json:"subtotal"`
	DiscountTotal  decimal.Decimal    `gorm:"type:numeric(15,2);default:0" json:"discount_total"`
	TaxTotal       decimal.Decimal    `gorm:"type:numeric(15,2);default:0" json:"tax_total"`
	GrandTotal     decimal.Decimal    `gorm:"type:numeric(15,2);default:0" json:"grand_total"`
	AmountPaid     decimal.Decimal    `gorm:"type:numeric(15,2);default:0" json:"amount_paid"`
	Balance        decimal.Decimal    `gorm:"type:numeric(15,2);default:0" json:"balance"`
	Version        int                `gorm:"not null;default:1" json:"version"`
	Notes          *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy      uuid.UUID          `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy      uuid.UUID          `gorm:"type:uuid;not null" json:"updated_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relationships
	Client   *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// BillingLines converts the invoice's items into calculator input,
// preserving item order
func (i *Invoice) BillingLines() []billing.Line {
	lines := make([]billing.Line, 0, len(i.Items))
	for _, item := range i.Items {
		lines = append(lines, item.BillingLine())
	}
	return lines
}

// ActivePaymentTotal sums the loaded non-voided payments
func (i *Invoice) ActivePaymentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		if p.IsActive() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// InvoiceItem represents a priced line item in an invoice
type InvoiceItem struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"invoice_id"`
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

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// BillingLine converts the item into calculator input
func (ii InvoiceItem) BillingLine() billing.Line {
	return billing.Line{
		Kind:          ii.Kind,
		Name:          ii.Name,
		Quantity:      ii.Quantity,
		UnitPrice:     ii.UnitPrice,
		DiscountType:  ii.DiscountType,
		DiscountValue: ii.DiscountValue,
		TaxRates:      ii.TaxRates,
	}
}
