package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ContractFilterParams represents filter parameters for listing contracts
type ContractFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ContractStatus
	ClientID   *uuid.UUID
}

// ContractRepository defines the interface for AMC contract data access.
// Update is an optimistic conditional write keyed on the entity's Version.
type ContractRepository interface {
	Create(ctx context.Context, contract *entity.AMCContract) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AMCContract, error)
	GetWithVisits(ctx context.Context, id uuid.UUID) (*entity.AMCContract, error)
	Update(ctx context.Context, contract *entity.AMCContract) error
	List(ctx context.Context, params *ContractFilterParams) ([]entity.AMCContract, int64, error)
	GetVisit(ctx context.Context, visitID uuid.UUID) (*entity.ServiceVisit, error)
	UpdateVisit(ctx context.Context, visit *entity.ServiceVisit) error
}
