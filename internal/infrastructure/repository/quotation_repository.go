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

type quotationRepository struct {
	db *gorm.DB
}

// NewQuotationRepository creates a new quotation repository
func NewQuotationRepository(db *gorm.DB) domainRepo.QuotationRepository {
	return &quotationRepository{db: db}
}

func (r *quotationRepository) Create(ctx context.Context, quotation *entity.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *quotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

func (r *quotationRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Quotation, error) {
	var quotation entity.Quotation
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quotation_items.position ASC")
		}).
		First(&quotation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quotation, err
}

// Update writes the quotation conditionally on the version it was loaded
// with. A zero rows-affected result means another writer got there first.
func (r *quotationRepository) Update(ctx context.Context, quotation *entity.Quotation) error {
	loadedVersion := quotation.Version
	quotation.Version = loadedVersion + 1

	if err := versionedQuotationWrite(r.db.WithContext(ctx), quotation, loadedVersion); err != nil {
		quotation.Version = loadedVersion
		return err
	}
	return nil
}

func versionedQuotationWrite(tx *gorm.DB, quotation *entity.Quotation, loadedVersion int) error {
	res := tx.Model(quotation).
		Where("version = ?", loadedVersion).
		Select("*").Omit("id", "created_at", clause.Associations).
		Updates(quotation)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewConflictError("quotation was modified concurrently")
	}
	return nil
}

// UpdateWithItems writes the quotation and replaces its line items in a
// single transaction so a failed item write never leaves committed totals
// computed from items that were not stored. The write is conditional on the
// version the quotation was loaded with.
func (r *quotationRepository) UpdateWithItems(ctx context.Context, quotation *entity.Quotation, items []entity.QuotationItem) error {
	loadedVersion := quotation.Version
	quotation.Version = loadedVersion + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := versionedQuotationWrite(tx, quotation, loadedVersion); err != nil {
			return err
		}
		if err := tx.Delete(&entity.QuotationItem{}, "quotation_id = ?", quotation.ID).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].QuotationID = quotation.ID
			items[i].Position = i
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		quotation.Version = loadedVersion
		return err
	}
	return nil
}

func (r *quotationRepository) List(ctx context.Context, params *domainRepo.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	var quotations []entity.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quotation{})

	if params.Search != "" {
		query = query.Where("document_number LIKE ?", "%"+params.Search+"%")
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
		Find(&quotations).Error

	return quotations, total, err
}
