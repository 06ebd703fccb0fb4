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
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceService handles invoice lifecycle operations. Payment application
// and voiding live in PaymentService; this service never touches balances
// directly.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	paymentRepo  repository.PaymentRepository
	clientRepo   repository.ClientRepository
	settingsRepo repository.SettingsRepository
	numbering    *NumberingService
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	numbering *NumberingService,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		clientRepo:   clientRepo,
		settingsRepo: settingsRepo,
		numbering:    numbering,
	}
}

// CreateInvoiceInput represents the input for creating an invoice
type CreateInvoiceInput struct {
	UserID    uuid.UUID
	ClientID  uuid.UUID
	IssueDate time.Time
	DueDate   *time.Time
	Notes     *string
	Items     []LineItemInput
}

// CreateInvoice creates a new Draft invoice. The document number is allocated
// before anything is persisted; a numbering failure aborts the creation.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}

	settings, err := s.settingsRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	s.applyDefaults(input, settings)

	totals, err := computeTotals(input.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.numbering.NextNumber(ctx, DocTypeInvoice, input.IssueDate)
	if err != nil {
		return nil, err
	}

	grandTotal := billing.Round2(totals.GrandTotal)
	invoice := &entity.Invoice{
		DocumentNumber: number,
		ClientID:       input.ClientID,
		Status:         enum.InvoiceStatusDraft,
		IssueDate:      input.IssueDate,
		DueDate:        input.DueDate,
		Subtotal:       billing.Round2(totals.Subtotal),
		DiscountTotal:  billing.Round2(totals.DiscountTotal),
		TaxTotal:       billing.Round2(totals.TaxTotal),
		GrandTotal:     grandTotal,
		Balance:        grandTotal,
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
		UpdatedBy:      input.UserID,
		Items:          toInvoiceItems(input.Items, totals),
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

func (s *InvoiceService) applyDefaults(input *CreateInvoiceInput, settings *entity.UserSettings) {
	if settings == nil {
		return
	}
	if input.DueDate == nil && settings.InvoiceDueDays > 0 {
		dueDate := input.IssueDate.AddDate(0, 0, settings.InvoiceDueDays)
		input.DueDate = &dueDate
	}
	if len(settings.DefaultTaxRates) == 0 {
		return
	}
	for i := range input.Items {
		if input.Items[i].TaxRates == nil {
			input.Items[i].TaxRates = settings.DefaultTaxRates
		}
	}
}

// GetInvoice retrieves an invoice by ID with its date-projected status
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	invoice.Status = lifecycle.ProjectInvoiceStatus(invoice.Status, invoice.DueDate, time.Now())
	return invoice, nil
}

// ListInvoicesInput represents the input for listing invoices
type ListInvoicesInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
}

// ListInvoices lists invoices with filtering. Statuses are projected against
// today's date before they are returned.
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInvoicesInput) (*pagination.PaginatedResult[entity.Invoice], error) {
	params := &repository.InvoiceFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ClientID:   input.ClientID,
	}

	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range invoices {
		invoices[i].Status = lifecycle.ProjectInvoiceStatus(invoices[i].Status, invoices[i].DueDate, now)
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateInvoiceInput represents the input for editing an invoice
type UpdateInvoiceInput struct {
	UserID    uuid.UUID
	ID        uuid.UUID
	IssueDate time.Time
	DueDate   *time.Time
	Notes     *string
	Items     []LineItemInput
}

// UpdateInvoice replaces the line items and editable fields of a Draft
// invoice and recomputes its totals. Only drafts are editable.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	totals, err := computeTotals(input.Items)
	if err != nil {
		return nil, err
	}

	err = withConflictRetry(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.Status != enum.InvoiceStatusDraft {
			return apperror.NewInvalidTransitionError("Invoice", invoice.DocumentNumber, invoice.Status.String(), "edit")
		}

		grandTotal := billing.Round2(totals.GrandTotal)
		invoice.IssueDate = input.IssueDate
		invoice.DueDate = input.DueDate
		invoice.Notes = input.Notes
		invoice.Subtotal = billing.Round2(totals.Subtotal)
		invoice.DiscountTotal = billing.Round2(totals.DiscountTotal)
		invoice.TaxTotal = billing.Round2(totals.TaxTotal)
		invoice.GrandTotal = grandTotal
		invoice.Balance = grandTotal
		invoice.UpdatedBy = input.UserID

		return s.invoiceRepo.UpdateWithItems(ctx, invoice, toInvoiceItems(input.Items, totals))
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, input.ID)
}

// TransitionInvoice applies a lifecycle event (send, cancel, revise) to an
// invoice. Cancelling requires every payment on the invoice to be voided
// first; the payment audit trail must survive the document it paid.
func (s *InvoiceService) TransitionInvoice(ctx context.Context, userID, id uuid.UUID, event lifecycle.Event) (*entity.Invoice, error) {
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		invoice, err := s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		next, err := lifecycle.NextInvoiceStatus(invoice.Status, event)
		if err != nil {
			return apperror.NewInvalidTransitionError("Invoice", invoice.DocumentNumber, invoice.Status.String(), string(event))
		}

		if event == lifecycle.EventCancel {
			payments, err := s.paymentRepo.ListByInvoice(ctx, id)
			if err != nil {
				return err
			}
			for _, p := range payments {
				if p.IsActive() {
					return apperror.NewValidationMessage("invoice has recorded payments; void them before cancelling")
				}
			}
		}

		invoice.Status = next
		invoice.UpdatedBy = userID
		return s.invoiceRepo.Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.GetInvoice(ctx, id)
}
