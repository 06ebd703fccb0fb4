package repository

import (
	"context"
	"errors"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	domainRepo "github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new AMC contract repository
func NewContractRepository(db *gorm.DB) domainRepo.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *entity.AMCContract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AMCContract, error) {
	var contract entity.AMCContract
	err := r.db.WithContext(ctx).First(&contract, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &contract, err
}

func (r *contractRepository) GetWithVisits(ctx context.Context, id uuid.UUID) (*entity.AMCContract, error) {
	var contract entity.AMCContract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Visits", func(db *gorm.DB) *gorm.DB {
			return db.Order("service_visits.due_date ASC")
		}).
		First(&contract, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &contract, err
}

// Update writes the contract conditionally on the version it was loaded
// with. A zero rows-affected result means another writer got there first.
func (r *contractRepository) Update(ctx context.Context, contract *entity.AMCContract) error {
	loadedVersion := contract.Version
	contract.Version = loadedVersion + 1

	res := r.db.WithContext(ctx).Model(contract).
		Where("version = ?", loadedVersion).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(contract)
	if res.Error != nil {
		contract.Version = loadedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		contract.Version = loadedVersion
		return apperror.NewConflictError("contract was modified concurrently")
	}
	return nil
}

func (r *contractRepository) List(ctx context.Context, params *domainRepo.ContractFilterParams) ([]entity.AMCContract, int64, error) {
	var contracts []entity.AMCContract
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AMCContract{})

	if params.Search != "" {
		query = query.Where("contract_number LIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.ClientID != nil {
		query = query.Where("client_id = ?", *params.ClientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Client").
		Order("created_at DESC").
		Find(&contracts).Error

	return contracts, total, err
}

func (r *contractRepository) GetVisit(ctx context.Context, visitID uuid.UUID) (*entity.ServiceVisit, error) {
	var visit entity.ServiceVisit
	err := r.db.WithContext(ctx).First(&visit, "id = ?", visitID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &visit, err
}

func (r *contractRepository) UpdateVisit(ctx context.Context, visit *entity.ServiceVisit) error {
	return r.db.WithContext(ctx).Save(visit).Error
}
