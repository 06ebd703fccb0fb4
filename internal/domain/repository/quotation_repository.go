package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// QuotationFilterParams represents filter parameters for listing quotations
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	ClientID   *uuid.UUID
}

// QuotationRepository defines the interface for quotation data access.
// Update is an optimistic conditional write keyed on the entity's Version;
// it fails with a conflict when the stored version has moved on.
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation) error
	// UpdateWithItems writes the quotation and replaces its line items in one
	// transaction; either both land or neither does.
	UpdateWithItems(ctx context.Context, quotation *entity.Quotation, items []entity.QuotationItem) error
	List(ctx context.Context, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
}
