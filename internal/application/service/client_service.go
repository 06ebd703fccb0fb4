package service

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientService handles client-related operations
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput represents the input for creating or updating a client
type ClientInput struct {
	UserID      uuid.UUID
	Name        string
	CompanyName *string
	Email       *string
	Phone       *string
	GSTIN       *string
	Address     *string
	City        *string
	State       *string
	Notes       *string
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	client := &entity.Client{
		Name:        input.Name,
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Phone:       input.Phone,
		GSTIN:       input.GSTIN,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Notes:       input.Notes,
		CreatedBy:   input.UserID,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists clients with search and pagination
func (s *ClientService) ListClients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Client], error) {
	clients, total, err := s.clientRepo.List(ctx, &repository.ClientFilterParams{
		Pagination: params,
		Search:     search,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(clients, pag), nil
}

// UpdateClient updates an existing client
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, input *ClientInput) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}

	client.Name = input.Name
	client.CompanyName = input.CompanyName
	client.Email = input.Email
	client.Phone = input.Phone
	client.GSTIN = input.GSTIN
	client.Address = input.Address
	client.City = input.City
	client.State = input.State
	client.Notes = input.Notes

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient soft-deletes a client
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NewNotFoundError("Client")
	}
	return s.clientRepo.Delete(ctx, id)
}
