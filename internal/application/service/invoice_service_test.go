package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/domain/lifecycle"
	infraRepo "github.com/bizfolio/bizfolio-api/internal/infrastructure/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type invoiceFixture struct {
	db       *gorm.DB
	svc      *service.InvoiceService
	payments *service.PaymentService
	userID   uuid.UUID
	clientID uuid.UUID
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&entity.Client{},
		&entity.UserSettings{},
	))

	userID := uuid.New()
	client := &entity.Client{Name: "Sharma Traders", CreatedBy: userID}
	require.NoError(t, db.Create(client).Error)

	require.NoError(t, db.Create(&entity.UserSettings{
		UserID:         userID,
		InvoiceDueDays: 15,
	}).Error)

	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	numbering := service.NewNumberingService(infraRepo.NewCounterRepository(db))

	svc := service.NewInvoiceService(
		invoiceRepo,
		paymentRepo,
		infraRepo.NewClientRepository(db),
		infraRepo.NewSettingsRepository(db),
		numbering,
	)
	payments := service.NewPaymentService(paymentRepo, invoiceRepo, numbering)

	return &invoiceFixture{db: db, svc: svc, payments: payments, userID: userID, clientID: client.ID}
}

func (f *invoiceFixture) createDraft(t *testing.T) *entity.Invoice {
	t.Helper()

	invoice, err := f.svc.CreateInvoice(context.Background(), &service.CreateInvoiceInput{
		UserID:    f.userID,
		ClientID:  f.clientID,
		IssueDate: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC),
		Items: []service.LineItemInput{
			{
				Kind:      enum.ItemKindService,
				Name:      "Annual maintenance",
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(1000),
			},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateInvoice_DefaultsDueDateFromSettings(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)

	assert.True(t, strings.HasPrefix(invoice.DocumentNumber, "INV202608"))
	assert.Equal(t, enum.InvoiceStatusDraft, invoice.Status)
	assert.True(t, invoice.GrandTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, invoice.Balance.Equal(invoice.GrandTotal))
	assert.True(t, invoice.AmountPaid.IsZero())

	require.NotNil(t, invoice.DueDate)
	assert.True(t, invoice.DueDate.Equal(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)),
		"due date = %s", invoice.DueDate)
}

func TestUpdateInvoice_DraftOnly(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateInvoice(ctx, &service.UpdateInvoiceInput{
		UserID:    f.userID,
		ID:        invoice.ID,
		IssueDate: invoice.IssueDate,
		Items: []service.LineItemInput{
			{Name: "Revised scope", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(300)},
		},
	})
	require.NoError(t, err)
	assert.True(t, updated.GrandTotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(600)))
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Revised scope", updated.Items[0].Name)

	_, err = f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventSend)
	require.NoError(t, err)

	_, err = f.svc.UpdateInvoice(ctx, &service.UpdateInvoiceInput{
		UserID:    f.userID,
		ID:        invoice.ID,
		IssueDate: invoice.IssueDate,
		Items: []service.LineItemInput{
			{Name: "Too late", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestUpdateInvoice_ItemWriteFailureLeavesTotalsUntouched(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)
	ctx := context.Background()

	repo := infraRepo.NewInvoiceRepository(f.db)
	loaded, err := repo.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	loaded.GrandTotal = decimal.NewFromInt(5)

	// Two items sharing a primary key make the item insert fail after the
	// totals row was written inside the same transaction
	dup := uuid.New()
	items := []entity.InvoiceItem{
		{ID: dup, Name: "first", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
		{ID: dup, Name: "second", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)},
	}
	require.Error(t, repo.UpdateWithItems(ctx, loaded, items))

	// Nothing committed: totals, items and version all read as before
	got, err := f.svc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, got.GrandTotal.Equal(decimal.NewFromInt(1000)), "grand total = %s", got.GrandTotal)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Annual maintenance", got.Items[0].Name)
	assert.Equal(t, 1, got.Version)
}

func TestTransitionInvoice_SendAndRevise(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)
	ctx := context.Background()

	sent, err := f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventSend)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusUnpaid, sent.Status)

	revised, err := f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventRevise)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusDraft, revised.Status)
}

func TestTransitionInvoice_CancelBlockedByActivePayment(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)
	ctx := context.Background()

	_, err := f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventSend)
	require.NoError(t, err)

	payment, err := f.payments.ApplyPayment(ctx, &service.ApplyPaymentInput{
		UserID:    f.userID,
		InvoiceID: invoice.ID,
		Amount:    decimal.NewFromInt(400),
		Mode:      enum.PaymentModeCash,
		PaidOn:    time.Now(),
	})
	require.NoError(t, err)

	_, err = f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventCancel)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	// After the payment is voided the cancel goes through
	_, err = f.payments.VoidPayment(ctx, f.userID, payment.ID, "cancelling invoice")
	require.NoError(t, err)

	cancelled, err := f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventCancel)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusCancelled, cancelled.Status)
}

func TestGetInvoice_ProjectsOverdue(t *testing.T) {
	f := newInvoiceFixture(t)
	invoice := f.createDraft(t)
	ctx := context.Background()

	_, err := f.svc.TransitionInvoice(ctx, f.userID, invoice.ID, lifecycle.EventSend)
	require.NoError(t, err)

	past := time.Now().AddDate(0, 0, -1)
	require.NoError(t, f.db.Model(&entity.Invoice{}).
		Where("id = ?", invoice.ID).
		Update("due_date", past).Error)

	got, err := f.svc.GetInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusOverdue, got.Status)

	// Overdue is never stored
	var stored entity.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", invoice.ID).Error)
	assert.Equal(t, enum.InvoiceStatusUnpaid, stored.Status)
}
