package request

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineItemRequest represents one priced line item in a document request.
// Monetary fields accept JSON numbers or strings.
type LineItemRequest struct {
	Kind          enum.ItemKind              `json:"kind"`
	Name          string                     `json:"name" binding:"required,max=255"`
	Description   *string                    `json:"description"`
	Quantity      decimal.Decimal            `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal            `json:"unit_price"`
	DiscountType  enum.DiscountType          `json:"discount_type"`
	DiscountValue decimal.Decimal            `json:"discount_value"`
	TaxRates      map[string]decimal.Decimal `json:"tax_rates"`
}

// ToInput converts the request item into a service input
func (r LineItemRequest) ToInput() service.LineItemInput {
	return service.LineItemInput{
		Kind:          r.Kind,
		Name:          r.Name,
		Description:   r.Description,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		TaxRates:      r.TaxRates,
	}
}

// ToInputs converts a slice of request items into service inputs
func ToInputs(items []LineItemRequest) []service.LineItemInput {
	inputs := make([]service.LineItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, item.ToInput())
	}
	return inputs
}

// CreateQuotationRequest represents a quotation creation request
type CreateQuotationRequest struct {
	ClientID   string            `json:"client_id" binding:"required,uuid"`
	IssueDate  time.Time         `json:"issue_date" binding:"required"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      *string           `json:"notes"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuotationRequest represents a quotation edit request
type UpdateQuotationRequest struct {
	IssueDate  time.Time         `json:"issue_date" binding:"required"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      *string           `json:"notes"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ConvertQuotationRequest represents a quotation conversion request
type ConvertQuotationRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	ClientID  string            `json:"client_id" binding:"required,uuid"`
	IssueDate time.Time         `json:"issue_date" binding:"required"`
	DueDate   *time.Time        `json:"due_date"`
	Notes     *string           `json:"notes"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest represents an invoice edit request
type UpdateInvoiceRequest struct {
	IssueDate time.Time         `json:"issue_date" binding:"required"`
	DueDate   *time.Time        `json:"due_date"`
	Notes     *string           `json:"notes"`
	Items     []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ApplyPaymentRequest represents a payment application request
type ApplyPaymentRequest struct {
	Amount           decimal.Decimal  `json:"amount" binding:"required"`
	Mode             enum.PaymentMode `json:"mode"`
	PaidOn           time.Time        `json:"paid_on" binding:"required"`
	Reference        *string          `json:"reference"`
	AllowOverpayment bool             `json:"allow_overpayment"`
}

// VoidPaymentRequest represents a payment void request
type VoidPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// CreateContractRequest represents an AMC contract creation request
type CreateContractRequest struct {
	ClientID         string                `json:"client_id" binding:"required,uuid"`
	ContractValue    decimal.Decimal       `json:"contract_value" binding:"required"`
	StartDate        time.Time             `json:"start_date" binding:"required"`
	EndDate          time.Time             `json:"end_date" binding:"required"`
	ServiceFrequency enum.ServiceFrequency `json:"service_frequency"`
	Notes            *string               `json:"notes"`
}

// RenewContractRequest represents a contract renewal request
type RenewContractRequest struct {
	ContractValue *decimal.Decimal `json:"contract_value"`
	StartDate     *time.Time       `json:"start_date"`
	EndDate       *time.Time       `json:"end_date"`
}

// CompleteVisitRequest represents a service visit completion request
type CompleteVisitRequest struct {
	Notes *string `json:"notes"`
}
