package service_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	infraRepo "github.com/bizfolio/bizfolio-api/internal/infrastructure/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh connection would see a fresh in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Payment{},
		&entity.DocumentCounter{},
	))

	return db
}

func newPaymentService(db *gorm.DB) *service.PaymentService {
	paymentRepo := infraRepo.NewPaymentRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	numbering := service.NewNumberingService(infraRepo.NewCounterRepository(db))
	return service.NewPaymentService(paymentRepo, invoiceRepo, numbering)
}

var invoiceSeq atomic.Int64

func seedInvoice(t *testing.T, db *gorm.DB, grandTotal string, status enum.InvoiceStatus) *entity.Invoice {
	t.Helper()

	total := decimal.RequireFromString(grandTotal)
	userID := uuid.New()
	invoice := &entity.Invoice{
		DocumentNumber: fmt.Sprintf("INV2026080%04d", invoiceSeq.Add(1)),
		ClientID:       uuid.New(),
		Status:         status,
		IssueDate:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Subtotal:       total,
		GrandTotal:     total,
		AmountPaid:     decimal.Zero,
		Balance:        total,
		Version:        1,
		CreatedBy:      userID,
		UpdatedBy:      userID,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func reloadInvoice(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Invoice {
	t.Helper()
	var invoice entity.Invoice
	require.NoError(t, db.First(&invoice, "id = ?", id).Error)
	return &invoice
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "1000", enum.InvoiceStatusUnpaid)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(400),
		Mode:      enum.PaymentModeUPI,
		PaidOn:    time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY20260800001", first.PaymentNumber)
	assert.Equal(t, enum.PaymentStatusCompleted, first.Status)

	got := reloadInvoice(t, db, invoice.ID)
	assert.Equal(t, enum.InvoiceStatusPartiallyPaid, got.Status)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(400)), "amount paid = %s", got.AmountPaid)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(600)), "balance = %s", got.Balance)
	assert.Equal(t, 2, got.Version)

	second, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(600),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "PAY20260800002", second.PaymentNumber)

	got = reloadInvoice(t, db, invoice.ID)
	assert.Equal(t, enum.InvoiceStatusPaid, got.Status)
	assert.True(t, got.Balance.IsZero(), "balance = %s", got.Balance)
	assert.Equal(t, 3, got.Version)
}

func TestApplyPayment_OverpaymentRejectedWithoutOverride(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "500", enum.InvoiceStatusUnpaid)
	ctx := context.Background()

	_, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(600),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOverpayment))

	// The invoice must be untouched
	got := reloadInvoice(t, db, invoice.ID)
	assert.Equal(t, enum.InvoiceStatusUnpaid, got.Status)
	assert.True(t, got.AmountPaid.IsZero())
	assert.Equal(t, 1, got.Version)
}

func TestApplyPayment_OverpaymentAllowedWithOverride(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "500", enum.InvoiceStatusUnpaid)
	ctx := context.Background()

	_, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:           uuid.New(),
		InvoiceID:        invoice.ID,
		Amount:           decimal.NewFromInt(600),
		Mode:             enum.PaymentModeBankTransfer,
		PaidOn:           time.Now(),
		AllowOverpayment: true,
	})
	require.NoError(t, err)

	got := reloadInvoice(t, db, invoice.ID)
	assert.Equal(t, enum.InvoiceStatusPaid, got.Status)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(600)))
	// Balance clamps at zero even when more than the total was recorded
	assert.True(t, got.Balance.IsZero(), "balance = %s", got.Balance)
}

func TestApplyPayment_RejectedForNonPayableStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	for _, status := range []enum.InvoiceStatus{
		enum.InvoiceStatusDraft,
		enum.InvoiceStatusPaid,
		enum.InvoiceStatusCancelled,
	} {
		invoice := seedInvoice(t, db, "100", status)

		_, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
			UserID:    uuid.New(),
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(100),
			Mode:      enum.PaymentModeCash,
			PaidOn:    time.Now(),
		})
		require.Error(t, err, "status %s should reject payments", status)
		assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))

		require.NoError(t, db.Delete(invoice).Error)
	}
}

func TestApplyPayment_NonPositiveAmountRejected(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "100", enum.InvoiceStatusUnpaid)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := svc.ApplyPayment(context.Background(), &service.ApplyPaymentInput{
			UserID:    uuid.New(),
			InvoiceID: invoice.ID,
			Amount:    amount,
			Mode:      enum.PaymentModeCash,
			PaidOn:    time.Now(),
		})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	}
}

func TestVoidPayment_RevertsInvoiceStatus(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "1000", enum.InvoiceStatusUnpaid)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(400),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.NoError(t, err)

	second, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(600),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.NoError(t, err)

	voided, err := svc.VoidPayment(ctx, userID, second.ID, "duplicate entry")
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusVoided, voided.Status)
	require.NotNil(t, voided.VoidReason)
	assert.Equal(t, "duplicate entry", *voided.VoidReason)
	assert.NotNil(t, voided.VoidedAt)

	// The record survives with its number; only the status flips
	assert.Equal(t, second.PaymentNumber, voided.PaymentNumber)

	got := reloadInvoice(t, db, invoice.ID)
	assert.Equal(t, enum.InvoiceStatusPartiallyPaid, got.Status)
	assert.True(t, got.AmountPaid.Equal(decimal.NewFromInt(400)))
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(600)))

	// Voiding the remaining payment reverts the invoice to Unpaid
	_, err = svc.VoidPayment(ctx, userID, first.ID, "")
	require.NoError(t, err)

	got = reloadInvoice(t, db, invoice.ID)
	assert.Equal(t, enum.InvoiceStatusUnpaid, got.Status)
	assert.True(t, got.AmountPaid.IsZero())
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestVoidPayment_AlreadyVoided(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "100", enum.InvoiceStatusUnpaid)
	userID := uuid.New()
	ctx := context.Background()

	payment, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(100),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.VoidPayment(ctx, userID, payment.ID, "first void")
	require.NoError(t, err)

	_, err = svc.VoidPayment(ctx, userID, payment.ID, "second void")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestListInvoicePayments_IncludesVoided(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)
	invoice := seedInvoice(t, db, "300", enum.InvoiceStatusUnpaid)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(100),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.VoidPayment(ctx, userID, first.ID, "wrong invoice")
	require.NoError(t, err)

	_, err = svc.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(200),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.NoError(t, err)

	payments, err := svc.ListInvoicePayments(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, enum.PaymentStatusVoided, payments[0].Status)
	assert.Equal(t, enum.PaymentStatusCompleted, payments[1].Status)
}

func TestApplyPayment_MissingInvoice(t *testing.T) {
	db := openTestDB(t)
	svc := newPaymentService(db)

	_, err := svc.ApplyPayment(context.Background(), &service.ApplyPaymentInput{
		UserID:    uuid.New(),
		InvoiceID: uuid.New(),
		Amount:    decimal.NewFromInt(100),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
