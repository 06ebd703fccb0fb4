package lifecycle_test

import (
	"testing"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/domain/lifecycle"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextQuotationStatus_LegalTransitions(t *testing.T) {
	cases := []struct {
		from  enum.QuotationStatus
		event lifecycle.Event
		to    enum.QuotationStatus
	}{
		{enum.QuotationStatusDraft, lifecycle.EventSend, enum.QuotationStatusSent},
		{enum.QuotationStatusSent, lifecycle.EventView, enum.QuotationStatusViewed},
		{enum.QuotationStatusSent, lifecycle.EventApprove, enum.QuotationStatusApproved},
		{enum.QuotationStatusSent, lifecycle.EventReject, enum.QuotationStatusRejected},
		{enum.QuotationStatusSent, lifecycle.EventRevise, enum.QuotationStatusDraft},
		{enum.QuotationStatusViewed, lifecycle.EventApprove, enum.QuotationStatusApproved},
		{enum.QuotationStatusViewed, lifecycle.EventReject, enum.QuotationStatusRejected},
		{enum.QuotationStatusViewed, lifecycle.EventRevise, enum.QuotationStatusDraft},
		{enum.QuotationStatusApproved, lifecycle.EventConvert, enum.QuotationStatusConverted},
	}

	for _, tc := range cases {
		next, err := lifecycle.NextQuotationStatus(tc.from, tc.event)
		require.NoError(t, err, "%s on %s", tc.event, tc.from)
		assert.Equal(t, tc.to, next)
	}
}

func TestNextQuotationStatus_IllegalTransitions(t *testing.T) {
	cases := []struct {
		from  enum.QuotationStatus
		event lifecycle.Event
	}{
		{enum.QuotationStatusDraft, lifecycle.EventApprove},
		{enum.QuotationStatusDraft, lifecycle.EventConvert},
		{enum.QuotationStatusSent, lifecycle.EventConvert},
		{enum.QuotationStatusRejected, lifecycle.EventApprove},
		{enum.QuotationStatusConverted, lifecycle.EventConvert},
		{enum.QuotationStatusConverted, lifecycle.EventRevise},
	}

	for _, tc := range cases {
		_, err := lifecycle.NextQuotationStatus(tc.from, tc.event)
		require.Error(t, err, "%s on %s should fail", tc.event, tc.from)

		var invalidErr *lifecycle.InvalidTransitionError
		assert.ErrorAs(t, err, &invalidErr)
	}
}

func TestNextInvoiceStatus(t *testing.T) {
	next, err := lifecycle.NextInvoiceStatus(enum.InvoiceStatusDraft, lifecycle.EventSend)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusUnpaid, next)

	next, err = lifecycle.NextInvoiceStatus(enum.InvoiceStatusUnpaid, lifecycle.EventRevise)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusDraft, next)

	next, err = lifecycle.NextInvoiceStatus(enum.InvoiceStatusPartiallyPaid, lifecycle.EventCancel)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusCancelled, next)

	// A paid invoice can neither be cancelled nor revised
	_, err = lifecycle.NextInvoiceStatus(enum.InvoiceStatusPaid, lifecycle.EventCancel)
	require.Error(t, err)
	_, err = lifecycle.NextInvoiceStatus(enum.InvoiceStatusPaid, lifecycle.EventRevise)
	require.Error(t, err)

	// Partially paid invoices cannot go back to draft
	_, err = lifecycle.NextInvoiceStatus(enum.InvoiceStatusPartiallyPaid, lifecycle.EventRevise)
	require.Error(t, err)

	_, err = lifecycle.NextInvoiceStatus(enum.InvoiceStatusCancelled, lifecycle.EventSend)
	require.Error(t, err)
}

func TestNextContractStatus(t *testing.T) {
	next, err := lifecycle.NextContractStatus(enum.ContractStatusDraft, lifecycle.EventActivate)
	require.NoError(t, err)
	assert.Equal(t, enum.ContractStatusActive, next)

	next, err = lifecycle.NextContractStatus(enum.ContractStatusActive, lifecycle.EventRenew)
	require.NoError(t, err)
	assert.Equal(t, enum.ContractStatusRenewed, next)

	_, err = lifecycle.NextContractStatus(enum.ContractStatusRenewed, lifecycle.EventRenew)
	require.Error(t, err)
	_, err = lifecycle.NextContractStatus(enum.ContractStatusDraft, lifecycle.EventRenew)
	require.Error(t, err)
}

func TestInvoiceStatusForBalance(t *testing.T) {
	total := decimal.NewFromInt(1000)

	assert.Equal(t, enum.InvoiceStatusUnpaid, lifecycle.InvoiceStatusForBalance(decimal.Zero, total))
	assert.Equal(t, enum.InvoiceStatusPartiallyPaid, lifecycle.InvoiceStatusForBalance(decimal.NewFromInt(400), total))
	assert.Equal(t, enum.InvoiceStatusPaid, lifecycle.InvoiceStatusForBalance(total, total))
	assert.Equal(t, enum.InvoiceStatusPaid, lifecycle.InvoiceStatusForBalance(decimal.NewFromInt(1200), total))
}

func TestProjectQuotationStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	assert.Equal(t, enum.QuotationStatusExpired,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusSent, &past, now))
	assert.Equal(t, enum.QuotationStatusExpired,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusViewed, &past, now))
	assert.Equal(t, enum.QuotationStatusSent,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusSent, &future, now))

	// Terminal and draft statuses never project to Expired
	assert.Equal(t, enum.QuotationStatusApproved,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusApproved, &past, now))
	assert.Equal(t, enum.QuotationStatusConverted,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusConverted, &past, now))
	assert.Equal(t, enum.QuotationStatusDraft,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusDraft, &past, now))

	assert.Equal(t, enum.QuotationStatusSent,
		lifecycle.ProjectQuotationStatus(enum.QuotationStatusSent, nil, now))
}

func TestProjectInvoiceStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	assert.Equal(t, enum.InvoiceStatusOverdue,
		lifecycle.ProjectInvoiceStatus(enum.InvoiceStatusUnpaid, &past, now))
	assert.Equal(t, enum.InvoiceStatusOverdue,
		lifecycle.ProjectInvoiceStatus(enum.InvoiceStatusPartiallyPaid, &past, now))
	assert.Equal(t, enum.InvoiceStatusUnpaid,
		lifecycle.ProjectInvoiceStatus(enum.InvoiceStatusUnpaid, &future, now))

	assert.Equal(t, enum.InvoiceStatusPaid,
		lifecycle.ProjectInvoiceStatus(enum.InvoiceStatusPaid, &past, now))
	assert.Equal(t, enum.InvoiceStatusCancelled,
		lifecycle.ProjectInvoiceStatus(enum.InvoiceStatusCancelled, &past, now))
	assert.Equal(t, enum.InvoiceStatusDraft,
		lifecycle.ProjectInvoiceStatus(enum.InvoiceStatusDraft, &past, now))
}

func TestProjectContractStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	assert.Equal(t, enum.ContractStatusExpired,
		lifecycle.ProjectContractStatus(enum.ContractStatusActive, past, now))
	assert.Equal(t, enum.ContractStatusActive,
		lifecycle.ProjectContractStatus(enum.ContractStatusActive, future, now))
	assert.Equal(t, enum.ContractStatusDraft,
		lifecycle.ProjectContractStatus(enum.ContractStatusDraft, past, now))
	assert.Equal(t, enum.ContractStatusRenewed,
		lifecycle.ProjectContractStatus(enum.ContractStatusRenewed, past, now))
}
