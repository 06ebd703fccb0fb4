package service

import (
	"context"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/bizfolio/bizfolio-api/internal/domain/enum"
	"github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/bizfolio/bizfolio-api/pkg/pagination"
	"github.com/google/uuid"
)

// LeadService handles pre-sales lead operations
type LeadService struct {
	leadRepo   repository.LeadRepository
	clientRepo repository.ClientRepository
}

// NewLeadService creates a new lead service
func NewLeadService(leadRepo repository.LeadRepository, clientRepo repository.ClientRepository) *LeadService {
	return &LeadService{leadRepo: leadRepo, clientRepo: clientRepo}
}

// LeadInput represents the input for creating or updating a lead
type LeadInput struct {
	UserID      uuid.UUID
	Name        string
	CompanyName *string
	Email       *string
	Phone       *string
	Source      *string
	Status      enum.LeadStatus
	Notes       *string
}

// CreateLead creates a new lead
func (s *LeadService) CreateLead(ctx context.Context, input *LeadInput) (*entity.Lead, error) {
	lead := &entity.Lead{
		Name:        input.Name,
		CompanyName: input.CompanyName,
		Email:       input.Email,
		Phone:       input.Phone,
		Source:      input.Source,
		Status:      input.Status,
		Notes:       input.Notes,
		CreatedBy:   input.UserID,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// GetLead retrieves a lead by ID
func (s *LeadService) GetLead(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperror.NewNotFoundError("Lead")
	}
	return lead, nil
}

// ListLeads lists leads with filtering
func (s *LeadService) ListLeads(ctx context.Context, params *pagination.PaginationParams, search string, status *enum.LeadStatus) (*pagination.PaginatedResult[entity.Lead], error) {
	leads, total, err := s.leadRepo.List(ctx, &repository.LeadFilterParams{
		Pagination: params,
		Search:     search,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(leads, pag), nil
}

// UpdateLead updates an existing lead. Converted leads are read-only.
func (s *LeadService) UpdateLead(ctx context.Context, id uuid.UUID, input *LeadInput) (*entity.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperror.NewNotFoundError("Lead")
	}
	if lead.Status == enum.LeadStatusConverted {
		return nil, apperror.NewValidationMessage("converted leads cannot be edited")
	}

	lead.Name = input.Name
	lead.CompanyName = input.CompanyName
	lead.Email = input.Email
	lead.Phone = input.Phone
	lead.Source = input.Source
	lead.Status = input.Status
	lead.Notes = input.Notes

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// DeleteLead soft-deletes a lead
func (s *LeadService) DeleteLead(ctx context.Context, id uuid.UUID) error {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lead == nil {
		return apperror.NewNotFoundError("Lead")
	}
	return s.leadRepo.Delete(ctx, id)
}

// ConvertLead converts a lead into a client, carrying over contact details.
// The lead keeps a pointer to the client it became.
func (s *LeadService) ConvertLead(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperror.NewNotFoundError("Lead")
	}
	if lead.Status == enum.LeadStatusConverted {
		return nil, apperror.NewValidationMessage("lead is already converted")
	}
	if lead.Status == enum.LeadStatusLost {
		return nil, apperror.NewValidationMessage("lost leads cannot be converted")
	}

	client := &entity.Client{
		Name:        lead.Name,
		CompanyName: lead.CompanyName,
		Email:       lead.Email,
		Phone:       lead.Phone,
		Notes:       lead.Notes,
		CreatedBy:   userID,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	lead.Status = enum.LeadStatusConverted
	lead.ConvertedClientID = &client.ID
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}

	return client, nil
}
