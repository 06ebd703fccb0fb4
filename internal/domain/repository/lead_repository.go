package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// LeadFilterParams represents filter parameters for listing leads
type LeadFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.LeadStatus
}

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *LeadFilterParams) ([]entity.Lead, int64, error)
}
