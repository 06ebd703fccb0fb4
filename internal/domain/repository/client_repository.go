package repository

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientFilterParams represents filter parameters for listing clients
type ClientFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ClientFilterParams) ([]entity.Client, int64, error)
}
