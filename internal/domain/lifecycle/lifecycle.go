// Package lifecycle defines the legal status transitions for quotations,
// invoices and AMC contracts, plus the read-time projections for statuses
// that are derived from dates (Expired, Overdue) rather than stored.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Event is a business event that may drive a status transition
type Event string

const (
	EventSend     Event = "send"
	EventView     Event = "view"
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventConvert  Event = "convert"
	EventCancel   Event = "cancel"
	EventRevise   Event = "revise"
	EventActivate Event = "activate"
	EventRenew    Event = "renew"
)

// InvalidTransitionError reports an event attempted from a state that does
// not permit it. The caller adds entity identity before surfacing it.
type InvalidTransitionError struct {
	Current string
	Event   Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a document in status %s", e.Event, e.Current)
}

var quotationTransitions = map[enum.QuotationStatus]map[Event]enum.QuotationStatus{
	enum.QuotationStatusDraft: {
		EventSend: enum.QuotationStatusSent,
	},
	enum.QuotationStatusSent: {
		EventView:    enum.QuotationStatusViewed,
		EventApprove: enum.QuotationStatusApproved,
		EventReject:  enum.QuotationStatusRejected,
		EventRevise:  enum.QuotationStatusDraft,
	},
	enum.QuotationStatusViewed: {
		EventApprove: enum.QuotationStatusApproved,
		EventReject:  enum.QuotationStatusRejected,
		EventRevise:  enum.QuotationStatusDraft,
	},
	enum.QuotationStatusApproved: {
		EventConvert: enum.QuotationStatusConverted,
	},
}

var invoiceTransitions = map[enum.InvoiceStatus]map[Event]enum.InvoiceStatus{
	enum.InvoiceStatusDraft: {
		EventSend:   enum.InvoiceStatusUnpaid,
		EventCancel: enum.InvoiceStatusCancelled,
	},
	enum.InvoiceStatusUnpaid: {
		EventCancel: enum.InvoiceStatusCancelled,
		EventRevise: enum.InvoiceStatusDraft,
	},
	enum.InvoiceStatusPartiallyPaid: {
		EventCancel: enum.InvoiceStatusCancelled,
	},
}

var contractTransitions = map[enum.ContractStatus]map[Event]enum.ContractStatus{
	enum.ContractStatusDraft: {
		EventActivate: enum.ContractStatusActive,
	},
	enum.ContractStatusActive: {
		EventRenew: enum.ContractStatusRenewed,
	},
}

// NextQuotationStatus returns the status a quotation moves to on event
func NextQuotationStatus(current enum.QuotationStatus, event Event) (enum.QuotationStatus, error) {
	if next, ok := quotationTransitions[current][event]; ok {
		return next, nil
	}
	return current, &InvalidTransitionError{Current: current.String(), Event: event}
}

// NextInvoiceStatus returns the status an invoice moves to on event.
// Payment-driven transitions are not events; see InvoiceStatusForBalance.
func NextInvoiceStatus(current enum.InvoiceStatus, event Event) (enum.InvoiceStatus, error) {
	if next, ok := invoiceTransitions[current][event]; ok {
		return next, nil
	}
	return current, &InvalidTransitionError{Current: current.String(), Event: event}
}

// NextContractStatus returns the status a contract moves to on event
func NextContractStatus(current enum.ContractStatus, event Event) (enum.ContractStatus, error) {
	if next, ok := contractTransitions[current][event]; ok {
		return next, nil
	}
	return current, &InvalidTransitionError{Current: current.String(), Event: event}
}

// InvoiceStatusForBalance derives the stored invoice status after payment
// reconciliation. A sent invoice is Paid only when the balance is zero and at
// least one non-voided payment exists; voiding every payment reverts it to
// Unpaid.
func InvoiceStatusForBalance(amountPaid, grandTotal decimal.Decimal) enum.InvoiceStatus {
	switch {
	case amountPaid.IsZero():
		return enum.InvoiceStatusUnpaid
	case amountPaid.GreaterThanOrEqual(grandTotal):
		return enum.InvoiceStatusPaid
	default:
		return enum.InvoiceStatusPartiallyPaid
	}
}

// ProjectQuotationStatus returns the status a reader should see at now.
// A Sent or Viewed quotation whose validity date has passed reports Expired
// regardless of the stored value.
func ProjectQuotationStatus(stored enum.QuotationStatus, validUntil *time.Time, now time.Time) enum.QuotationStatus {
	if validUntil == nil {
		return stored
	}
	if (stored == enum.QuotationStatusSent || stored == enum.QuotationStatusViewed) && now.After(*validUntil) {
		return enum.QuotationStatusExpired
	}
	return stored
}

// ProjectInvoiceStatus returns the status a reader should see at now.
// An unpaid or partially paid invoice past its due date reports Overdue.
func ProjectInvoiceStatus(stored enum.InvoiceStatus, dueDate *time.Time, now time.Time) enum.InvoiceStatus {
	if dueDate == nil {
		return stored
	}
	if (stored == enum.InvoiceStatusUnpaid || stored == enum.InvoiceStatusPartiallyPaid) && now.After(*dueDate) {
		return enum.InvoiceStatusOverdue
	}
	return stored
}

// ProjectContractStatus returns the status a reader should see at now.
// An Active contract whose end date has passed reports Expired.
func ProjectContractStatus(stored enum.ContractStatus, endDate time.Time, now time.Time) enum.ContractStatus {
	if stored == enum.ContractStatusActive && now.After(endDate) {
		return enum.ContractStatusExpired
	}
	return stored
}
