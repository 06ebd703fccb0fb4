package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceFilterParams represents filter parameters for listing invoices
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
}

// InvoiceRepository defines the interface for invoice data access.
// Update is an optimistic conditional write keyed on the entity's Version.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// UpdateWithItems writes the invoice and replaces its line items in one
	// transaction; either both land or neither does.
	UpdateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}
