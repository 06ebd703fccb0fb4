package billing_test

import (
	"testing"

	"github.com/bizfolio/bizfolio-api/internal/domain/billing"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeLine_PercentageDiscountWithSplitTax(t *testing.T) {
	line := billing.Line{
		Kind:          enum.ItemKindService,
		Name:          "AC deep clean",
		Quantity:      d("2"),
		UnitPrice:     d("100"),
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: d("10"),
		TaxRates: map[string]decimal.Decimal{
			"CGST": d("9"),
			"SGST": d("9"),
		},
	}

	b, err := billing.ComputeLine(line)
	require.NoError(t, err)

	assert.True(t, b.Subtotal.Equal(d("200")), "subtotal = %s", b.Subtotal)
	assert.True(t, b.Discount.Equal(d("20")), "discount = %s", b.Discount)
	assert.True(t, b.Taxable.Equal(d("180")), "taxable = %s", b.Taxable)
	assert.True(t, b.TaxComponents["CGST"].Equal(d("16.2")))
	assert.True(t, b.TaxComponents["SGST"].Equal(d("16.2")))
	assert.True(t, b.Tax.Equal(d("32.4")), "tax = %s", b.Tax)
	assert.True(t, b.Total.Equal(d("212.4")), "total = %s", b.Total)
}

func TestComputeLine_FixedDiscount(t *testing.T) {
	b, err := billing.ComputeLine(billing.Line{
		Quantity:      d("1"),
		UnitPrice:     d("500"),
		DiscountType:  enum.DiscountTypeFixed,
		DiscountValue: d("50"),
		TaxRates:      map[string]decimal.Decimal{"GST": d("18")},
	})
	require.NoError(t, err)

	assert.True(t, b.Taxable.Equal(d("450")))
	assert.True(t, b.Tax.Equal(d("81")))
	assert.True(t, b.Total.Equal(d("531")))
}

func TestComputeLine_FixedDiscountClampedToSubtotal(t *testing.T) {
	b, err := billing.ComputeLine(billing.Line{
		Quantity:      d("1"),
		UnitPrice:     d("100"),
		DiscountType:  enum.DiscountTypeFixed,
		DiscountValue: d("150"),
	})
	require.NoError(t, err)

	assert.True(t, b.Discount.Equal(d("100")))
	assert.True(t, b.Taxable.IsZero())
	assert.True(t, b.Total.IsZero())
}

func TestComputeLine_PercentageCappedAtHundred(t *testing.T) {
	b, err := billing.ComputeLine(billing.Line{
		Quantity:      d("3"),
		UnitPrice:     d("40"),
		DiscountType:  enum.DiscountTypePercentage,
		DiscountValue: d("250"),
	})
	require.NoError(t, err)

	assert.True(t, b.Discount.Equal(d("120")))
	assert.True(t, b.Taxable.IsZero())
}

func TestComputeLine_ZeroQuantityIsValid(t *testing.T) {
	b, err := billing.ComputeLine(billing.Line{
		Quantity:  decimal.Zero,
		UnitPrice: d("999"),
		TaxRates:  map[string]decimal.Decimal{"GST": d("18")},
	})
	require.NoError(t, err)

	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.Tax.IsZero())
	assert.True(t, b.Total.IsZero())
}

func TestComputeLine_NegativeFieldsRejected(t *testing.T) {
	cases := []struct {
		name  string
		line  billing.Line
		field string
	}{
		{
			name:  "negative quantity",
			line:  billing.Line{Quantity: d("-1"), UnitPrice: d("10")},
			field: "quantity",
		},
		{
			name:  "negative unit price",
			line:  billing.Line{Quantity: d("1"), UnitPrice: d("-10")},
			field: "unit_price",
		},
		{
			name:  "negative discount",
			line:  billing.Line{Quantity: d("1"), UnitPrice: d("10"), DiscountValue: d("-5")},
			field: "discount_value",
		},
		{
			name: "negative tax rate",
			line: billing.Line{
				Quantity:  d("1"),
				UnitPrice: d("10"),
				TaxRates:  map[string]decimal.Decimal{"GST": d("-18")},
			},
			field: "tax_rates.GST",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := billing.ComputeLine(tc.line)
			require.Error(t, err)

			var vErr *billing.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestComputeDocument_AggregatesLines(t *testing.T) {
	lines := []billing.Line{
		{
			Quantity:      d("2"),
			UnitPrice:     d("100"),
			DiscountType:  enum.DiscountTypePercentage,
			DiscountValue: d("10"),
			TaxRates:      map[string]decimal.Decimal{"CGST": d("9"), "SGST": d("9")},
		},
		{
			Quantity:  d("1"),
			UnitPrice: d("50"),
		},
	}

	totals, err := billing.ComputeDocument(lines)
	require.NoError(t, err)
	require.Len(t, totals.Lines, 2)

	assert.True(t, totals.Subtotal.Equal(d("250")))
	assert.True(t, totals.DiscountTotal.Equal(d("20")))
	assert.True(t, totals.TaxTotal.Equal(d("32.4")))
	assert.True(t, totals.GrandTotal.Equal(d("262.4")))
}

func TestComputeDocument_FailsFastOnBadLine(t *testing.T) {
	_, err := billing.ComputeDocument([]billing.Line{
		{Quantity: d("1"), UnitPrice: d("10")},
		{Quantity: d("-1"), UnitPrice: d("10")},
	})
	require.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.True(t, billing.Round2(d("212.445")).Equal(d("212.45")))
	assert.True(t, billing.Round2(d("212.4")).Equal(d("212.4")))
}
