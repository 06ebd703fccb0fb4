package service

import (
	"context"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/domain/billing"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/domain/lifecycle"
	"github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService applies and voids payments against invoices. Every write
// that changes an invoice balance runs inside the invoice lock so that the
// stored AmountPaid, Balance and status always agree with the set of
// non-voided payments.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	numbering   *NumberingService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	numbering *NumberingService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		numbering:   numbering,
	}
}

// remainingBalance clamps the outstanding balance at zero; an allowed
// overpayment leaves the invoice Paid with a zero balance, never negative
func remainingBalance(grandTotal, amountPaid decimal.Decimal) decimal.Decimal {
	balance := grandTotal.Sub(amountPaid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// ApplyPaymentInput represents the input for applying a payment
type ApplyPaymentInput struct {
	UserID    uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Mode      enum.PaymentMode
	PaidOn    time.Time
	Reference *string
	// AllowOverpayment lets the caller record more than the outstanding
	// balance, e.g. an advance the client actually paid
	AllowOverpayment bool
}

// ApplyPayment records a payment against an invoice and reconciles the
// invoice's paid amount, balance and status in the same transaction. A
// payment exceeding the outstanding balance is rejected unless the caller
// explicitly allows overpayment.
func (s *PaymentService) ApplyPayment(ctx context.Context, input *ApplyPaymentInput) (*entity.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "must be greater than zero"},
		})
	}

	number, err := s.numbering.NextNumber(ctx, DocTypePayment, input.PaidOn)
	if err != nil {
		return nil, err
	}

	var created *entity.Payment
	err = withConflictRetry(ctx, func(ctx context.Context) error {
		return s.paymentRepo.WithInvoiceLock(ctx, input.InvoiceID, func(tx repository.ReconciliationTx) error {
			invoice := tx.Invoice()
			if !invoice.Status.AcceptsPayments() {
				return apperror.NewInvalidTransitionError("Invoice", invoice.DocumentNumber, invoice.Status.String(), "pay")
			}

			activeTotal := invoice.ActivePaymentTotal()
			balance := invoice.GrandTotal.Sub(activeTotal)
			if input.Amount.GreaterThan(balance) && !input.AllowOverpayment {
				return apperror.NewOverpaymentError(invoice.DocumentNumber, balance.StringFixed(2), input.Amount.StringFixed(2))
			}

			payment := &entity.Payment{
				PaymentNumber: number,
				InvoiceID:     invoice.ID,
				Amount:        billing.Round2(input.Amount),
				Mode:          input.Mode,
				PaidOn:        input.PaidOn,
				Reference:     input.Reference,
				Status:        enum.PaymentStatusCompleted,
				CreatedBy:     input.UserID,
			}
			if err := tx.CreatePayment(payment); err != nil {
				return err
			}

			amountPaid := activeTotal.Add(payment.Amount)
			invoice.AmountPaid = billing.Round2(amountPaid)
			invoice.Balance = billing.Round2(remainingBalance(invoice.GrandTotal, amountPaid))
			invoice.Status = lifecycle.InvoiceStatusForBalance(amountPaid, invoice.GrandTotal)
			invoice.UpdatedBy = input.UserID
			if err := tx.SaveInvoice(invoice); err != nil {
				return err
			}

			created = payment
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// VoidPayment voids a payment and reconciles the invoice it was applied to.
// The payment record survives with its number; voided numbers are never
// reused. Voiding the only payment on a Paid invoice reverts it to Unpaid.
func (s *PaymentService) VoidPayment(ctx context.Context, userID, paymentID uuid.UUID, reason string) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	var voided *entity.Payment
	err = withConflictRetry(ctx, func(ctx context.Context) error {
		return s.paymentRepo.WithInvoiceLock(ctx, payment.InvoiceID, func(tx repository.ReconciliationTx) error {
			invoice := tx.Invoice()

			var target *entity.Payment
			for i := range invoice.Payments {
				if invoice.Payments[i].ID == paymentID {
					target = &invoice.Payments[i]
					break
				}
			}
			if target == nil {
				return apperror.NewNotFoundError("Payment")
			}
			if !target.IsActive() {
				return apperror.NewValidationMessage("payment is already voided")
			}

			target.MarkVoided(reason)
			if err := tx.UpdatePayment(target); err != nil {
				return err
			}

			amountPaid := invoice.ActivePaymentTotal()
			invoice.AmountPaid = billing.Round2(amountPaid)
			invoice.Balance = billing.Round2(remainingBalance(invoice.GrandTotal, amountPaid))
			// Cancelled and Draft invoices keep their stored status; only
			// payment-driven statuses are recomputed from the balance
			switch invoice.Status {
			case enum.InvoiceStatusUnpaid, enum.InvoiceStatusPartiallyPaid, enum.InvoiceStatusPaid:
				invoice.Status = lifecycle.InvoiceStatusForBalance(amountPaid, invoice.GrandTotal)
			}
			invoice.UpdatedBy = userID
			if err := tx.SaveInvoice(invoice); err != nil {
				return err
			}

			voided = target
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return voided, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListInvoicePayments lists all payments recorded against an invoice,
// voided ones included, in application order
func (s *PaymentService) ListInvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}
