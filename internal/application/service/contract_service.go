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
	"github.com/shopspring/decimal"
)

// ContractService handles AMC contract and service visit operations
type ContractService struct {
	contractRepo repository.ContractRepository
	clientRepo   repository.ClientRepository
	numbering    *NumberingService
}

// NewContractService creates a new contract service
func NewContractService(
	contractRepo repository.ContractRepository,
	clientRepo repository.ClientRepository,
	numbering *NumberingService,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		numbering:    numbering,
	}
}

// CreateContractInput represents the input for creating an AMC contract
type CreateContractInput struct {
	UserID           uuid.UUID
	ClientID         uuid.UUID
	ContractValue    decimal.Decimal
	StartDate        time.Time
	EndDate          time.Time
	ServiceFrequency enum.ServiceFrequency
	Notes            *string
}

// CreateContract creates a new Draft contract with its visit schedule. The
// end date must be strictly after the start date.
func (s *ContractService) CreateContract(ctx context.Context, input *CreateContractInput) (*entity.AMCContract, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "end_date", Message: "must be after start date"},
		})
	}
	if input.ContractValue.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "contract_value", Message: "must not be negative"},
		})
	}

	client, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}

	number, err := s.numbering.NextNumber(ctx, DocTypeContract, input.StartDate)
	if err != nil {
		return nil, err
	}

	contract := &entity.AMCContract{
		ContractNumber:   number,
		ClientID:         input.ClientID,
		ContractValue:    billing.Round2(input.ContractValue),
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		ServiceFrequency: input.ServiceFrequency,
		Status:           enum.ContractStatusDraft,
		Notes:            input.Notes,
		CreatedBy:        input.UserID,
		UpdatedBy:        input.UserID,
		Visits:           scheduleVisits(input.StartDate, input.EndDate, input.ServiceFrequency),
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	return s.contractRepo.GetWithVisits(ctx, contract.ID)
}

// scheduleVisits generates the pending visit schedule: one visit per
// frequency interval from the start date, up to and including the end date
func scheduleVisits(start, end time.Time, frequency enum.ServiceFrequency) []entity.ServiceVisit {
	interval := frequency.MonthsBetweenVisits()
	var visits []entity.ServiceVisit
	for due := start.AddDate(0, interval, 0); !due.After(end); due = due.AddDate(0, interval, 0) {
		visits = append(visits, entity.ServiceVisit{
			DueDate: due,
			Status:  enum.VisitStatusPending,
		})
	}
	return visits
}

// GetContract retrieves a contract by ID with its date-projected status
func (s *ContractService) GetContract(ctx context.Context, id uuid.UUID) (*entity.AMCContract, error) {
	contract, err := s.contractRepo.GetWithVisits(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, apperror.NewNotFoundError("Contract")
	}
	contract.Status = lifecycle.ProjectContractStatus(contract.Status, contract.EndDate, time.Now())
	return contract, nil
}

// ListContractsInput represents the input for listing contracts
type ListContractsInput struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.ContractStatus
	ClientID   *uuid.UUID
}

// ListContracts lists contracts with filtering. Statuses are projected
// against today's date before they are returned.
func (s *ContractService) ListContracts(ctx context.Context, input *ListContractsInput) (*pagination.PaginatedResult[entity.AMCContract], error) {
	params := &repository.ContractFilterParams{
		Pagination: input.Pagination,
		Search:     input.Search,
		Status:     input.Status,
		ClientID:   input.ClientID,
	}

	contracts, total, err := s.contractRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range contracts {
		contracts[i].Status = lifecycle.ProjectContractStatus(contracts[i].Status, contracts[i].EndDate, now)
	}

	pag := pagination.NewPagination(input.Pagination.Page, input.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(contracts, pag), nil
}

// ActivateContract moves a Draft contract to Active
func (s *ContractService) ActivateContract(ctx context.Context, userID, id uuid.UUID) (*entity.AMCContract, error) {
	err := withConflictRetry(ctx, func(ctx context.Context) error {
		contract, err := s.contractRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if contract == nil {
			return apperror.NewNotFoundError("Contract")
		}

		next, err := lifecycle.NextContractStatus(contract.Status, lifecycle.EventActivate)
		if err != nil {
			return apperror.NewInvalidTransitionError("Contract", contract.ContractNumber, contract.Status.String(), string(lifecycle.EventActivate))
		}

		contract.Status = next
		contract.UpdatedBy = userID
		return s.contractRepo.Update(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	return s.GetContract(ctx, id)
}

// RenewContractInput represents the input for renewing a contract
type RenewContractInput struct {
	UserID        uuid.UUID
	ContractID    uuid.UUID
	ContractValue *decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
}

// RenewContract closes an Active contract as Renewed and creates a successor
// contract that is immediately Active, with its own number, visit schedule
// and lineage back to the original. Omitted terms carry over: the new period
// starts where the old one ended and runs for the same duration.
func (s *ContractService) RenewContract(ctx context.Context, input *RenewContractInput) (*entity.AMCContract, error) {
	var source *entity.AMCContract

	err := withConflictRetry(ctx, func(ctx context.Context) error {
		contract, err := s.contractRepo.GetByID(ctx, input.ContractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return apperror.NewNotFoundError("Contract")
		}

		next, err := lifecycle.NextContractStatus(contract.Status, lifecycle.EventRenew)
		if err != nil {
			return apperror.NewInvalidTransitionError("Contract", contract.ContractNumber, contract.Status.String(), string(lifecycle.EventRenew))
		}

		contract.Status = next
		contract.UpdatedBy = input.UserID
		if err := s.contractRepo.Update(ctx, contract); err != nil {
			return err
		}
		source = contract
		return nil
	})
	if err != nil {
		return nil, err
	}

	startDate := source.EndDate
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	endDate := startDate.Add(source.EndDate.Sub(source.StartDate))
	if input.EndDate != nil {
		endDate = *input.EndDate
	}
	value := source.ContractValue
	if input.ContractValue != nil {
		value = *input.ContractValue
	}

	if !endDate.After(startDate) {
		s.revertRenewal(ctx, input.UserID, source.ID)
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "end_date", Message: "must be after start date"},
		})
	}

	number, err := s.numbering.NextNumber(ctx, DocTypeContract, startDate)
	if err != nil {
		s.revertRenewal(ctx, input.UserID, source.ID)
		return nil, err
	}

	renewal := &entity.AMCContract{
		ContractNumber:   number,
		ClientID:         source.ClientID,
		ContractValue:    billing.Round2(value),
		StartDate:        startDate,
		EndDate:          endDate,
		ServiceFrequency: source.ServiceFrequency,
		Status:           enum.ContractStatusActive,
		RenewedFromID:    &source.ID,
		Notes:            source.Notes,
		CreatedBy:        input.UserID,
		UpdatedBy:        input.UserID,
		Visits:           scheduleVisits(startDate, endDate, source.ServiceFrequency),
	}

	if err := s.contractRepo.Create(ctx, renewal); err != nil {
		s.revertRenewal(ctx, input.UserID, source.ID)
		return nil, err
	}

	return s.contractRepo.GetWithVisits(ctx, renewal.ID)
}

// revertRenewal puts a contract back to Active after a failed renewal so it
// can be renewed again. Best effort.
func (s *ContractService) revertRenewal(ctx context.Context, userID, id uuid.UUID) {
	_ = withConflictRetry(ctx, func(ctx context.Context) error {
		contract, err := s.contractRepo.GetByID(ctx, id)
		if err != nil || contract == nil {
			return err
		}
		if contract.Status != enum.ContractStatusRenewed {
			return nil
		}
		contract.Status = enum.ContractStatusActive
		contract.UpdatedBy = userID
		return s.contractRepo.Update(ctx, contract)
	})
}

// CompleteVisit marks a pending service visit as completed. Visit completion
// is independent of the contract's status; a visit on an expired contract can
// still be completed.
func (s *ContractService) CompleteVisit(ctx context.Context, userID, visitID uuid.UUID, notes *string) (*entity.ServiceVisit, error) {
	visit, err := s.contractRepo.GetVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, apperror.NewNotFoundError("Service visit")
	}
	if visit.Status == enum.VisitStatusCompleted {
		return nil, apperror.NewValidationMessage("visit is already completed")
	}

	now := time.Now()
	visit.Status = enum.VisitStatusCompleted
	visit.CompletedAt = &now
	visit.CompletedBy = &userID
	if notes != nil {
		visit.Notes = notes
	}

	if err := s.contractRepo.UpdateVisit(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}
