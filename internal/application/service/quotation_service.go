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

// QuotationService handles quotation lifecycle operations
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	invoiceRepo   repository.InvoiceRepository
	clientRepo    repository.ClientRepository
	settingsRepo  repository.SettingsRepository
	numbering     *NumberingService
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	numbering *NumberingService,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		settingsRepo:  settingsRepo,
		numbering:     numbering,
	}
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	UserID     uuid.UUID
	ClientID   uuid.UUID
	IssueDate  time.Time
	ValidUntil *time.Time
	Notes      *string
	Items      []LineItemInput
}

// CreateQuotation creates a new Draft quotation. The document number is
// allocated before anything is persisted; a numbering failure aborts the
// creation. Missing validity dates and tax components come from the creator's
// settings.
func (s *QuotationService) CreateQuotation(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
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

	number, err := s.numbering.NextNumber(ctx, DocTypeQuotation, input.IssueDate)
	if err != nil {
		return nil, err
	}

	quotation := &entity.Quotation{
		DocumentNumber: number,
		ClientID:       input.ClientID,
		Status:         enum.QuotationStatusDraft,
		IssueDate:      input.IssueDate,
		ValidUntil:     input.ValidUntil,
		Subtotal:       billing.Round2(totals.Subtotal),
		DiscountTotal:  billing.Round2(totals.DiscountTotal),
		TaxTotal:       billing.Round2(totals.TaxTotal),
		GrandTotal:     billing.Round2(totals.GrandTotal),
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
		UpdatedBy:      input.UserID,
		Items:          toQuotationItems(input.Items, totals),
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, quotation.ID)
}

func (s *QuotationService) applyDefaults(input *CreateQuotationInput, settings *entity.UserSettings) {
	if settings == nil {
		return
	}
	if input.ValidUntil == nil && settings.QuotationValidityDays > 0 {
		validUntil := input.IssueDate.AddDate(0, 0, settings.QuotationValidityDays)
		input.ValidUntil = &validUntil
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

// GetQuotation retrieves a quotation by ID with its date-projected status
func (s *QuotationService) GetQuotation(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	quotation.Status = lifecycle.ProjectQuotationStatus(quotation.Status, quotation.ValidUntil, time.Now())
	return quotation, nil
}

// ListQuotationsInput represents the input for listing quotations
type ListQuotationsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	ClientID   *uuid.UUID
}

// ListQuotations lists quotations with filtering. Statuses are projected
// against today's date before they are returned.
func (s *QuotationService) ListQuotations(ctx context.Context, input *ListQuotationsInput) (*pagination.PaginatedResult[entity.Quotation], error) {
	params := &repository.QuotationFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ClientID:   input.ClientID,
	}

	quotations, total, err := s.quotationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range quotations {
		quotations[i].Status = lifecycle.ProjectQuotationStatus(quotations[i].Status, quotations[i].ValidUntil, now)
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(quotations, pag), nil
}

// UpdateQuotationInput represents the input for editing a quotation
type UpdateQuotationInput struct {
	UserID     uuid.UUID
	ID         uuid.UUID
	IssueDate  time.Time
	ValidUntil *time.Time
	Notes      *string
	Items      []LineItemInput
}

// UpdateQuotation replaces the line items and editable fields of a Draft
// quotation and recomputes its totals. Only drafts are editable.
func (s *QuotationService) UpdateQuotation(ctx context.Context, input *UpdateQuotationInput) (*entity.Quotation, error) {
	totals, err := computeTotals(input.Items)
	if err != nil {
		return nil, err
	}

	err = withConflictRetry(ctx, func(ctx context.Context) error {
		quotation, err := s.quotationRepo.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if quotation == nil {
			return apperror.NewNotFoundError("Quotation")
		}
		if quotation.Status != enum.QuotationStatusDraft {
			return apperror.NewInvalidTransitionError("Quotation", quotation.DocumentNumber, quotation.Status.String(), "edit")
		}

		quotation.IssueDate = input.IssueDate
		quotation.ValidUntil = input.ValidUntil
		quotation.Notes = input.Notes
		quotation.Subtotal = billing.Round2(totals.Subtotal)
		quotation.DiscountTotal = billing.Round2(totals.DiscountTotal)
		quotation.TaxTotal = billing.Round2(totals.TaxTotal)
		quotation.GrandTotal = billing.Round2(totals.GrandTotal)
		quotation.UpdatedBy = input.UserID

		return s.quotationRepo.UpdateWithItems(ctx, quotation, toQuotationItems(input.Items, totals))
	})
	if err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, input.ID)
}

// TransitionQuotation applies a lifecycle event (send, view, approve, reject,
// revise) to a quotation. Illegal moves are rejected against the
// date-projected status, so a quotation whose validity has elapsed is
// terminal even while the stored status still says Sent or Viewed. The write
// is conditional on the version the status was read at.
func (s *QuotationService) TransitionQuotation(ctx context.Context, userID, id uuid.UUID, event lifecycle.Event) (*entity.Quotation, error) {
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		quotation, err := s.quotationRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if quotation == nil {
			return apperror.NewNotFoundError("Quotation")
		}

		current := lifecycle.ProjectQuotationStatus(quotation.Status, quotation.ValidUntil, time.Now())
		next, err := lifecycle.NextQuotationStatus(current, event)
		if err != nil {
			return apperror.NewInvalidTransitionError("Quotation", quotation.DocumentNumber, current.String(), string(event))
		}

		quotation.Status = next
		quotation.UpdatedBy = userID
		return s.quotationRepo.Update(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}

	return s.GetQuotation(ctx, id)
}

// ConvertQuotation converts an Approved quotation into a Draft invoice. The
// quotation is marked Converted first so the same quotation can never produce
// two invoices; the new invoice copies the line items and carries lineage
// back to the quotation.
func (s *QuotationService) ConvertQuotation(ctx context.Context, userID, id uuid.UUID, dueDate *time.Time) (*entity.Invoice, error) {
	var source *entity.Quotation

	err := withConflictRetry(ctx, func(ctx context.Context) error {
		quotation, err := s.quotationRepo.GetWithItems(ctx, id)
		if err != nil {
			return err
		}
		if quotation == nil {
			return apperror.NewNotFoundError("Quotation")
		}

		current := lifecycle.ProjectQuotationStatus(quotation.Status, quotation.ValidUntil, time.Now())
		next, err := lifecycle.NextQuotationStatus(current, lifecycle.EventConvert)
		if err != nil {
			return apperror.NewInvalidTransitionError("Quotation", quotation.DocumentNumber, current.String(), string(lifecycle.EventConvert))
		}

		quotation.Status = next
		quotation.UpdatedBy = userID
		if err := s.quotationRepo.Update(ctx, quotation); err != nil {
			return err
		}
		source = quotation
		return nil
	})
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if dueDate == nil {
		if settings, err := s.settingsRepo.GetByUserID(ctx, userID); err == nil && settings != nil && settings.InvoiceDueDays > 0 {
			due := issueDate.AddDate(0, 0, settings.InvoiceDueDays)
			dueDate = &due
		}
	}

	number, err := s.numbering.NextNumber(ctx, DocTypeInvoice, issueDate)
	if err != nil {
		s.revertConversion(ctx, userID, id)
		return nil, err
	}

	items := make([]entity.InvoiceItem, 0, len(source.Items))
	for i, item := range source.Items {
		items = append(items, entity.InvoiceItem{
			Position:      i,
			Kind:          item.Kind,
			Name:          item.Name,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			TaxRates:      item.TaxRates,
			LineTotal:     item.LineTotal,
		})
	}

	invoice := &entity.Invoice{
		DocumentNumber: number,
		ClientID:       source.ClientID,
		QuotationID:    &source.ID,
		Status:         enum.InvoiceStatusDraft,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		Subtotal:       source.Subtotal,
		DiscountTotal:  source.DiscountTotal,
		TaxTotal:       source.TaxTotal,
		GrandTotal:     source.GrandTotal,
		Balance:        source.GrandTotal,
		Notes:          source.Notes,
		CreatedBy:      userID,
		UpdatedBy:      userID,
		Items:          items,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.revertConversion(ctx, userID, id)
		return nil, err
	}

	return s.invoiceRepo.GetWithItems(ctx, invoice.ID)
}

// revertConversion puts a quotation back to Approved after a failed
// conversion so it can be converted again. Best effort.
func (s *QuotationService) revertConversion(ctx context.Context, userID, id uuid.UUID) {
	_ = withConflictRetry(ctx, func(ctx context.Context) error {
		quotation, err := s.quotationRepo.GetByID(ctx, id)
		if err != nil || quotation == nil {
			return err
		}
		if quotation.Status != enum.QuotationStatusConverted {
			return nil
		}
		quotation.Status = enum.QuotationStatusApproved
		quotation.UpdatedBy = userID
		return s.quotationRepo.Update(ctx, quotation)
	})
}
