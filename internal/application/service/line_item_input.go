package service

import (
	"errors"

	"github.com/bizfolio/bizfolio-api/internal/domain/billing"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// LineItemInput represents one priced line item as submitted by a caller
type LineItemInput struct {
	Kind          enum.ItemKind
	Name          string
	Description   *string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	TaxRates      map[string]decimal.Decimal
}

func (in LineItemInput) billingLine() billing.Line {
	return billing.Line{
		Kind:          in.Kind,
		Name:          in.Name,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		TaxRates:      in.TaxRates,
	}
}

// computeTotals validates the submitted items and computes document totals.
// Calculator validation errors surface as 422 field errors.
func computeTotals(items []LineItemInput) (billing.DocumentTotals, error) {
	lines := make([]billing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.billingLine())
	}
	totals, err := billing.ComputeDocument(lines)
	if err != nil {
		var vErr *billing.ValidationError
		if errors.As(err, &vErr) {
			return billing.DocumentTotals{}, apperror.NewValidationError([]apperror.FieldError{
				{Field: vErr.Field, Message: vErr.Reason},
			})
		}
		return billing.DocumentTotals{}, err
	}
	return totals, nil
}

func toQuotationItems(items []LineItemInput, totals billing.DocumentTotals) []entity.QuotationItem {
	out := make([]entity.QuotationItem, 0, len(items))
	for i, item := range items {
		out = append(out, entity.QuotationItem{
			Position:      i,
			Kind:          item.Kind,
			Name:          item.Name,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			TaxRates:      item.TaxRates,
			LineTotal:     billing.Round2(totals.Lines[i].Total),
		})
	}
	return out
}

func toInvoiceItems(items []LineItemInput, totals billing.DocumentTotals) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, 0, len(items))
	for i, item := range items {
		out = append(out, entity.InvoiceItem{
			Position:      i,
			Kind:          item.Kind,
			Name:          item.Name,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			TaxRates:      item.TaxRates,
			LineTotal:     billing.Round2(totals.Lines[i].Total),
		})
	}
	return out
}
