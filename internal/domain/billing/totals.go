package billing

import (
	"fmt"

	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Line is the calculator's view of one priced row in a financial document.
// Amounts are full-precision decimals; rounding happens only at the point of
// persistence or display via Round2.
type Line struct {
	Kind          enum.ItemKind
	Name          string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	TaxRates      map[string]decimal.Decimal
}

// LineBreakdown is the computed result for a single line
type LineBreakdown struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Taxable       decimal.Decimal
	TaxComponents map[string]decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// DocumentTotals aggregates line breakdowns for a whole document
type DocumentTotals struct {
	Lines         []LineBreakdown
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
}

// ValidationError reports a malformed line item field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid line item: %s %s", e.Field, e.Reason)
}

var oneHundred = decimal.NewFromInt(100)

// ComputeLine computes the breakdown for a single line item.
// Zero quantity or zero price lines are valid and contribute zero. A negative
// quantity, price, discount or tax rate is a validation error; the only
// silent adjustment is the discount clamp to [0, subtotal], which is policy.
func ComputeLine(l Line) (LineBreakdown, error) {
	if l.Quantity.IsNegative() {
		return LineBreakdown{}, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if l.UnitPrice.IsNegative() {
		return LineBreakdown{}, &ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}
	if l.DiscountValue.IsNegative() {
		return LineBreakdown{}, &ValidationError{Field: "discount_value", Reason: "must not be negative"}
	}

	subtotal := l.Quantity.Mul(l.UnitPrice)

	var discount decimal.Decimal
	switch l.DiscountType {
	case enum.DiscountTypePercentage:
		pct := l.DiscountValue
		if pct.GreaterThan(oneHundred) {
			pct = oneHundred
		}
		discount = subtotal.Mul(pct).Div(oneHundred)
	default:
		discount = l.DiscountValue
	}
	// Clamp to the pre-tax line amount
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		return LineBreakdown{}, &ValidationError{Field: "discount_value", Reason: "exceeds line subtotal"}
	}

	components := make(map[string]decimal.Decimal, len(l.TaxRates))
	tax := decimal.Zero
	for name, rate := range l.TaxRates {
		if rate.IsNegative() {
			return LineBreakdown{}, &ValidationError{Field: "tax_rates." + name, Reason: "must not be negative"}
		}
		amount := taxable.Mul(rate).Div(oneHundred)
		components[name] = amount
		tax = tax.Add(amount)
	}

	return LineBreakdown{
		Subtotal:      subtotal,
		Discount:      discount,
		Taxable:       taxable,
		TaxComponents: components,
		Tax:           tax,
		Total:         taxable.Add(tax),
	}, nil
}

// ComputeDocument computes document totals from its ordered line items
func ComputeDocument(lines []Line) (DocumentTotals, error) {
	totals := DocumentTotals{
		Lines:         make([]LineBreakdown, 0, len(lines)),
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
	for _, l := range lines {
		b, err := ComputeLine(l)
		if err != nil {
			return DocumentTotals{}, err
		}
		totals.Lines = append(totals.Lines, b)
		totals.Subtotal = totals.Subtotal.Add(b.Subtotal)
		totals.DiscountTotal = totals.DiscountTotal.Add(b.Discount)
		totals.TaxTotal = totals.TaxTotal.Add(b.Tax)
		totals.GrandTotal = totals.GrandTotal.Add(b.Total)
	}
	return totals, nil
}

// Round2 rounds a monetary value to 2 decimal places for persistence/display
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
