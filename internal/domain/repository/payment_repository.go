package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/google/uuid"
)

// ReconciliationTx is the set of writes available while an invoice is held
// under an exclusive lock. Everything done through it commits atomically or
// not at all.
type ReconciliationTx interface {
	// Invoice returns the locked invoice, loaded with items and payments
	Invoice() *entity.Invoice
	CreatePayment(payment *entity.Payment) error
	UpdatePayment(payment *entity.Payment) error
	// SaveInvoice persists balance/status changes with a version bump;
	// fails with a conflict if the stored version moved on
	SaveInvoice(invoice *entity.Invoice) error
}

// PaymentRepository defines the interface for payment data access.
// All writes that touch an invoice's balance go through WithInvoiceLock so
// concurrent payment applications against the same invoice serialize.
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetByNumber(ctx context.Context, number string) (*entity.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error)
	WithInvoiceLock(ctx context.Context, invoiceID uuid.UUID, fn func(tx ReconciliationTx) error) error
}
