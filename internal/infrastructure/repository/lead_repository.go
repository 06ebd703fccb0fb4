package repository

import (
	"context"
	"errors"

	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	domainRepo "github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) domainRepo.LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	var lead entity.Lead
	err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &lead, err
}

func (r *leadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *leadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Lead{}, "id = ?", id).Error
}

func (r *leadRepository) List(ctx context.Context, params *domainRepo.LeadFilterParams) ([]entity.Lead, int64, error) {
	var leads []entity.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Lead{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR company_name LIKE ? OR email LIKE ?", like, like, like)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&leads).Error

	return leads, total, err
}
